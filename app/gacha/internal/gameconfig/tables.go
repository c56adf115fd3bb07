package gameconfig

import (
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/rarity"
)

// PackType 卡池配置，启动时装载后不可变
type PackType struct {
	Name string
	// MaxBatch 单次请求允许的最大抽数
	MaxBatch int32
	// Weights 稀有度权重表，装载时已校验总和为 1
	Weights map[model.Rarity]float64
	// QualifyingRarity 触发保底清零的最低稀有度（合格稀有度）
	QualifyingRarity model.Rarity
	// PityThreshold 保底窗口：连续 PityThreshold 抽内必出合格稀有度
	PityThreshold int32
	// PoolTags 卡池过滤标签，空表示全目录可出
	PoolTags []string

	dist *rarity.Distribution
}

// Distribution 该卡池的稀有度分布（装载时构建）
func (p *PackType) Distribution() *rarity.Distribution {
	return p.dist
}

// Allows 卡牌是否属于该卡池
func (p *PackType) Allows(card *model.Card) bool {
	if len(p.PoolTags) == 0 {
		return true
	}
	for _, tag := range p.PoolTags {
		if card.HasTag(tag) {
			return true
		}
	}
	return false
}

// ForcedRarity 保底强制时使用的稀有度
// 取权重表中 >= 合格稀有度的最低档，保证最小且可预测
func (p *PackType) ForcedRarity() model.Rarity {
	for _, r := range model.AllRarities {
		if r < p.QualifyingRarity {
			continue
		}
		if w, ok := p.Weights[r]; ok && w > 0 {
			return r
		}
	}
	// 装载校验保证合格稀有度在权重表内有非空档位，此处仅兜底
	return p.QualifyingRarity
}

// DeckRules 卡组组装规则
type DeckRules struct {
	// MaxDeckSize 卡组上限张数
	MaxDeckSize int32
	// CopyLimits 每档稀有度允许的同卡份数上限
	CopyLimits map[model.Rarity]int32
}

// CopyLimit 指定稀有度的同卡份数上限
func (r *DeckRules) CopyLimit(rar model.Rarity) int32 {
	if limit, ok := r.CopyLimits[rar]; ok {
		return limit
	}
	return 1
}

// DefaultDeckRules 未配置时的默认卡组规则
func DefaultDeckRules() *DeckRules {
	return &DeckRules{
		MaxDeckSize: 30,
		CopyLimits: map[model.Rarity]int32{
			model.RarityCommon:    4,
			model.RarityUncommon:  4,
			model.RarityRare:      3,
			model.RarityEpic:      2,
			model.RarityLegendary: 2,
			model.RarityMythic:    1,
			model.RarityCosmic:    1,
		},
	}
}

// Tables 全部配置表的只读聚合
type Tables struct {
	Cards []*model.Card
	Packs map[string]*PackType
	Deck  *DeckRules
}

// Pack 按名称取卡池配置
func (t *Tables) Pack(name string) (*PackType, bool) {
	p, ok := t.Packs[name]
	return p, ok
}

// PackNames 全部卡池名（装载顺序）
func (t *Tables) PackNames() []string {
	names := make([]string, 0, len(t.Packs))
	for name := range t.Packs {
		names = append(names, name)
	}
	return names
}
