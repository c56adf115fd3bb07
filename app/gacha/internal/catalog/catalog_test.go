package catalog

import (
	"errors"
	"testing"

	"github.com/lk2023060901/cardwish/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
)

func testCards() []*model.Card {
	return []*model.Card{
		{ID: 1, Name: "Grove Sprite", Rarity: model.RarityCommon, Type: model.CardTypeCreature},
		{ID: 2, Name: "Ember Rat", Rarity: model.RarityCommon, Type: model.CardTypeCreature, Tags: []string{"fire"}},
		{ID: 3, Name: "Flame Archon", Rarity: model.RarityEpic, Type: model.CardTypeCreature, Tags: []string{"fire"}},
		{ID: 4, Name: "Void Weaver", Rarity: model.RarityEpic, Type: model.CardTypeSpell},
	}
}

func TestBuildIndexesAndPools(t *testing.T) {
	tables := &gameconfig.Tables{
		Cards: testCards(),
		Packs: map[string]*gameconfig.PackType{
			"standard": {
				Name: "standard",
				Weights: map[model.Rarity]float64{
					model.RarityCommon: 0.9,
					model.RarityEpic:   0.1,
				},
			},
		},
	}

	c, err := Build(tables)
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}
	if c.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", c.Size())
	}

	card, ok := c.GetByID(3)
	if !ok || card.Name != "Flame Archon" {
		t.Fatalf("GetByID(3) = %v, %v", card, ok)
	}
	if _, ok := c.GetByID(99); ok {
		t.Fatal("GetByID(99) should miss")
	}

	commons := c.ListByRarityAndPack(model.RarityCommon, "standard")
	if len(commons) != 2 {
		t.Fatalf("common pool = %d cards, want 2", len(commons))
	}
	if got := c.ListByRarityAndPack(model.RarityCommon, "missing"); got != nil {
		t.Fatalf("unknown pack pool = %v, want nil", got)
	}
}

// 带标签的卡池只收录命中标签的卡
func TestBuildFiltersPoolByTags(t *testing.T) {
	tables := &gameconfig.Tables{
		Cards: testCards(),
		Packs: map[string]*gameconfig.PackType{
			"fire": {
				Name:     "fire",
				PoolTags: []string{"fire"},
				Weights: map[model.Rarity]float64{
					model.RarityCommon: 0.9,
					model.RarityEpic:   0.1,
				},
			},
		},
	}

	c, err := Build(tables)
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}

	commons := c.ListByRarityAndPack(model.RarityCommon, "fire")
	if len(commons) != 1 || commons[0].ID != 2 {
		t.Fatalf("fire common pool = %v, want only card 2", commons)
	}
	epics := c.ListByRarityAndPack(model.RarityEpic, "fire")
	if len(epics) != 1 || epics[0].ID != 3 {
		t.Fatalf("fire epic pool = %v, want only card 3", epics)
	}
}

// 权重为正但池内无卡属于配置错误，启动期必须失败
func TestBuildRejectsEmptyWeightedPool(t *testing.T) {
	tables := &gameconfig.Tables{
		Cards: testCards(),
		Packs: map[string]*gameconfig.PackType{
			"broken": {
				Name: "broken",
				Weights: map[model.Rarity]float64{
					model.RarityCommon:    0.9,
					model.RarityLegendary: 0.1, // 目录里没有 legendary 卡
				},
			},
		},
	}

	if _, err := Build(tables); !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("Build() = %v, want ErrConfiguration", err)
	}
}
