package rarity

import (
	"errors"
	"math"
	"testing"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
)

func TestNewDistributionRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights map[model.Rarity]float64
	}{
		{"empty", nil},
		{"sum below one", map[model.Rarity]float64{model.RarityCommon: 0.5}},
		{"sum above one", map[model.Rarity]float64{model.RarityCommon: 0.8, model.RarityRare: 0.3}},
		{"negative weight", map[model.Rarity]float64{model.RarityCommon: 1.5, model.RarityRare: -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDistribution(tt.weights)
			if !errors.Is(err, model.ErrConfiguration) {
				t.Fatalf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestNewDistributionAcceptsTolerance(t *testing.T) {
	// 三个 1/3 的浮点和不精确为 1，但应落在容差内
	third := 1.0 / 3.0
	_, err := NewDistribution(map[model.Rarity]float64{
		model.RarityCommon:   third,
		model.RarityUncommon: third,
		model.RarityRare:     third,
	})
	if err != nil {
		t.Fatalf("NewDistribution() = %v, want nil", err)
	}
}

func TestSampleConvergesToWeights(t *testing.T) {
	weights := map[model.Rarity]float64{
		model.RarityCommon:    0.60,
		model.RarityUncommon:  0.25,
		model.RarityRare:      0.10,
		model.RarityEpic:      0.04,
		model.RarityLegendary: 0.01,
	}

	dist, err := NewDistribution(weights)
	if err != nil {
		t.Fatalf("NewDistribution() = %v", err)
	}

	const samples = 100000
	rng := NewSeededSource(20260829)

	counts := make(map[model.Rarity]int)
	for i := 0; i < samples; i++ {
		counts[dist.Sample(rng)]++
	}

	for r, want := range weights {
		got := float64(counts[r]) / samples
		if math.Abs(got-want) > 0.01 {
			t.Errorf("rarity %s: observed %.4f, configured %.4f, diff > 1%%", r, got, want)
		}
	}
}

func TestSampleDeterministicUnderSeed(t *testing.T) {
	dist, err := NewDistribution(map[model.Rarity]float64{
		model.RarityCommon: 0.7,
		model.RarityRare:   0.2,
		model.RarityEpic:   0.1,
	})
	if err != nil {
		t.Fatalf("NewDistribution() = %v", err)
	}

	const n = 1000
	run := func(seed uint64) []model.Rarity {
		rng := NewSeededSource(seed)
		out := make([]model.Rarity, n)
		for i := range out {
			out[i] = dist.Sample(rng)
		}
		return out
	}

	a, b := run(7), run(7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequence diverged at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestSampleCoversOnlyConfiguredTiers(t *testing.T) {
	dist, err := NewDistribution(map[model.Rarity]float64{
		model.RarityEpic:   0.5,
		model.RarityCosmic: 0.5,
	})
	if err != nil {
		t.Fatalf("NewDistribution() = %v", err)
	}

	rng := NewSeededSource(1)
	for i := 0; i < 10000; i++ {
		r := dist.Sample(rng)
		if r != model.RarityEpic && r != model.RarityCosmic {
			t.Fatalf("sampled unconfigured rarity %s", r)
		}
	}
}
