package catalog

import (
	"fmt"

	"github.com/lk2023060901/cardwish/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
)

// Catalog 卡牌目录，进程启动时构建一次，之后只读
// 配置热更新通过整体替换实例完成，绝不原地修改
type Catalog struct {
	byID map[int32]*model.Card
	// pools 卡池名 → 稀有度 → 候选卡列表（已按卡池过滤）
	pools map[string]map[model.Rarity][]*model.Card
}

// Build 由配置表构建目录并校验可达性
// 任何卡池权重表引用的稀有度在该池内必须有非空候选集
func Build(tables *gameconfig.Tables) (*Catalog, error) {
	c := &Catalog{
		byID:  make(map[int32]*model.Card, len(tables.Cards)),
		pools: make(map[string]map[model.Rarity][]*model.Card, len(tables.Packs)),
	}

	for _, card := range tables.Cards {
		c.byID[card.ID] = card
	}

	for name, pack := range tables.Packs {
		pool := make(map[model.Rarity][]*model.Card)
		for _, card := range tables.Cards {
			if pack.Allows(card) {
				pool[card.Rarity] = append(pool[card.Rarity], card)
			}
		}

		// 可达性校验：权重为正的档位必须有卡可出
		for r, w := range pack.Weights {
			if w <= 0 {
				continue
			}
			if len(pool[r]) == 0 {
				return nil, fmt.Errorf("%w: pack %q has weighted rarity %s but no cards in pool",
					model.ErrConfiguration, name, r)
			}
		}
		c.pools[name] = pool
	}

	return c, nil
}

// GetByID 按 ID 取卡牌定义
func (c *Catalog) GetByID(id int32) (*model.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// ListByRarityAndPack 指定卡池内指定稀有度的候选卡
// 返回内部切片，调用方不得修改
func (c *Catalog) ListByRarityAndPack(r model.Rarity, packName string) []*model.Card {
	pool, ok := c.pools[packName]
	if !ok {
		return nil
	}
	return pool[r]
}

// Size 目录内卡牌总数
func (c *Catalog) Size() int {
	return len(c.byID)
}
