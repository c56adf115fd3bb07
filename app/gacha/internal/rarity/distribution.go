package rarity

import (
	"fmt"
	"math"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
)

// weightTolerance 权重和的浮点容差
const weightTolerance = 1e-9

// Distribution 单个卡池的稀有度权重分布
// 构造时完成校验与累计权重预计算，之后采样为纯只读操作
type Distribution struct {
	tiers []model.Rarity // 固定顺序 common→cosmic，仅含权重为正的档位
	cum   []float64      // 与 tiers 对齐的累计权重
}

// NewDistribution 由权重表构造分布
// 权重必须全部非负且总和为 1（容差内），否则视为配置错误
func NewDistribution(weights map[model.Rarity]float64) (*Distribution, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty rarity weight table", model.ErrConfiguration)
	}

	sum := 0.0
	for r, w := range weights {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: weight for invalid rarity %d", model.ErrConfiguration, uint8(r))
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v for rarity %s", model.ErrConfiguration, w, r)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return nil, fmt.Errorf("%w: rarity weights sum to %v, want 1", model.ErrConfiguration, sum)
	}

	d := &Distribution{
		tiers: make([]model.Rarity, 0, len(weights)),
		cum:   make([]float64, 0, len(weights)),
	}

	// 按固定档位顺序累计，保证相同种子下采样可回放
	acc := 0.0
	for _, r := range model.AllRarities {
		w, ok := weights[r]
		if !ok || w == 0 {
			continue
		}
		acc += w
		d.tiers = append(d.tiers, r)
		d.cum = append(d.cum, acc)
	}
	return d, nil
}

// Sample 按累计权重反演采样一个稀有度
// 除消耗随机源外无副作用
func (d *Distribution) Sample(rng RandomSource) model.Rarity {
	u := rng.Float64()
	for i, c := range d.cum {
		if u < c {
			return d.tiers[i]
		}
	}
	// u 落在累计尾部的浮点缝隙时归入最高档
	return d.tiers[len(d.tiers)-1]
}

// Tiers 返回分布覆盖的稀有度档位（固定顺序）
func (d *Distribution) Tiers() []model.Rarity {
	out := make([]model.Rarity, len(d.tiers))
	copy(out, d.tiers)
	return out
}
