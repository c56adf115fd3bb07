package rarity

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"
)

// RandomSource 随机源抽象
// 引擎不依赖全局随机数，注入随机源才能做种子回放测试
type RandomSource interface {
	// Float64 返回 [0,1) 均匀分布
	Float64() float64
	// IntN 返回 [0,n) 均匀分布，n 必须为正
	IntN(n int) int
}

// cryptoSource 默认随机源，基于 crypto/rand
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// 降级到 math/rand/v2
		return rand.Float64()
	}
	// 取高 53 位构造 [0,1)
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func (cryptoSource) IntN(n int) int {
	// 拒绝采样消除模偏差，保证 [0,n) 严格均匀
	limit := math.MaxUint64 - math.MaxUint64%uint64(n)
	for {
		var buf [8]byte
		if _, err := cryptorand.Read(buf[:]); err != nil {
			return rand.IntN(n)
		}
		u := binary.BigEndian.Uint64(buf[:])
		if u < limit {
			return int(u % uint64(n))
		}
	}
}

// DefaultSource 返回默认的加密随机源
func DefaultSource() RandomSource { return cryptoSource{} }

// seededSource 可回放随机源（PCG），并发安全
type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource 创建带种子的随机源，相同种子产生相同序列
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
