package gameconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/pkg/logger"
)

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	raw, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadGoodTables(t *testing.T) {
	tables, err := Load(filepath.Join("testdata", "good"), logger.NewNoop())
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if len(tables.Cards) != 12 {
		t.Fatalf("len(Cards) = %d, want 12", len(tables.Cards))
	}
	if len(tables.Packs) != 2 {
		t.Fatalf("len(Packs) = %d, want 2", len(tables.Packs))
	}

	standard, ok := tables.Pack("standard")
	if !ok {
		t.Fatal("pack standard missing")
	}
	if standard.PityThreshold != 50 {
		t.Fatalf("standard threshold = %d, want 50", standard.PityThreshold)
	}
	// 未显式配置时合格稀有度缺省为 epic
	if standard.QualifyingRarity != model.RarityEpic {
		t.Fatalf("standard qualifying = %s, want epic", standard.QualifyingRarity)
	}
	if standard.Distribution() == nil {
		t.Fatal("standard distribution not built")
	}

	if tables.Deck.MaxDeckSize != 30 {
		t.Fatalf("MaxDeckSize = %d, want 30", tables.Deck.MaxDeckSize)
	}
	if got := tables.Deck.CopyLimit(model.RarityCommon); got != 4 {
		t.Fatalf("common copy limit = %d, want 4", got)
	}
	if got := tables.Deck.CopyLimit(model.RarityCosmic); got != 1 {
		t.Fatalf("cosmic copy limit = %d, want 1", got)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		dir  string
	}{
		{"missing directory", "missing"},
		{"duplicate card id", "dup_card"},
		{"weights do not sum to one", "bad_weights"},
		{"qualifying rarity has no weighted tier", "no_qualifying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.dir), logger.NewNoop())
			if !errors.Is(err, model.ErrConfiguration) {
				t.Fatalf("Load(%s) = %v, want ErrConfiguration", tt.dir, err)
			}
		})
	}
}

// 卡组规则表缺省时回退到内置默认值
func TestLoadDefaultDeckRules(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, filepath.Join("testdata", "good", "cards.json"), filepath.Join(dir, "cards.json"))
	copyFile(t, filepath.Join("testdata", "good", "packs.json"), filepath.Join(dir, "packs.json"))

	tables, err := Load(dir, logger.NewNoop())
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	want := DefaultDeckRules()
	if tables.Deck.MaxDeckSize != want.MaxDeckSize {
		t.Fatalf("MaxDeckSize = %d, want %d", tables.Deck.MaxDeckSize, want.MaxDeckSize)
	}
}

func TestForcedRarityPicksLowestQualifyingTier(t *testing.T) {
	tables, err := Load(filepath.Join("testdata", "good"), logger.NewNoop())
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	standard, _ := tables.Pack("standard")
	// 权重表里 >= epic 的最低档是 epic 本档
	if got := standard.ForcedRarity(); got != model.RarityEpic {
		t.Fatalf("ForcedRarity() = %s, want epic", got)
	}
}
