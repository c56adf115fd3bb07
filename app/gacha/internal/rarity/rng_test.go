package rarity

import "testing"

func TestSeededSourceReplays(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)

	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("Float64 diverged at draw %d", i)
		}
		if a.IntN(7) != b.IntN(7) {
			t.Fatalf("IntN diverged at draw %d", i)
		}
	}
}

// 非 2 的幂的池大小下 IntN 必须严格均匀（无模偏差）
func TestCryptoIntNUniform(t *testing.T) {
	src := DefaultSource()
	const n = 3
	const draws = 30000

	counts := make([]int, n)
	for i := 0; i < draws; i++ {
		v := src.IntN(n)
		if v < 0 || v >= n {
			t.Fatalf("IntN(%d) = %d out of range", n, v)
		}
		counts[v]++
	}

	// 期望各占 1/3，30k 次采样下 ±3% 绝对偏差已远超 10 个标准差
	for i, c := range counts {
		got := float64(c) / draws
		if got < 1.0/n-0.03 || got > 1.0/n+0.03 {
			t.Fatalf("bucket %d frequency %.4f deviates from uniform", i, got)
		}
	}
}
