package gameconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/rarity"
	"github.com/lk2023060901/cardwish/pkg/logger"
)

const (
	cardsFile     = "cards.json"
	packsFile     = "packs.json"
	deckRulesFile = "deck_rules.json"
)

// packTypeRow 卡池表的落盘形态
type packTypeRow struct {
	Name             string             `json:"name"`
	MaxBatch         int32              `json:"max_batch"`
	Weights          map[string]float64 `json:"weights"`
	QualifyingRarity string             `json:"qualifying_rarity"`
	PityThreshold    int32              `json:"pity_threshold"`
	PoolTags         []string           `json:"pool_tags,omitempty"`
}

// deckRulesRow 卡组规则表的落盘形态
type deckRulesRow struct {
	MaxDeckSize int32            `json:"max_deck_size"`
	CopyLimits  map[string]int32 `json:"copy_limits"`
}

// Load 从数据目录装载全部配置表并校验
// 任何不一致都是配置错误，启动期直接失败
func Load(dataDir string, l logger.Logger) (*Tables, error) {
	if l == nil {
		l = logger.Default()
	}
	l = l.Named("gameconfig")

	cards, err := loadCards(filepath.Join(dataDir, cardsFile))
	if err != nil {
		return nil, err
	}

	packs, err := loadPacks(filepath.Join(dataDir, packsFile))
	if err != nil {
		return nil, err
	}

	deck, err := loadDeckRules(filepath.Join(dataDir, deckRulesFile))
	if err != nil {
		return nil, err
	}

	tables := &Tables{Cards: cards, Packs: packs, Deck: deck}
	l.Info("game config tables loaded",
		"cards", len(cards),
		"packs", len(packs),
		"max_deck_size", deck.MaxDeckSize,
	)
	return tables, nil
}

func loadCards(path string) ([]*model.Card, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrConfiguration, path, err)
	}

	var cards []*model.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", model.ErrConfiguration, path, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: card table is empty", model.ErrConfiguration)
	}

	seen := make(map[int32]struct{}, len(cards))
	for _, card := range cards {
		if card.ID <= 0 {
			return nil, fmt.Errorf("%w: card %q has invalid id %d", model.ErrConfiguration, card.Name, card.ID)
		}
		if _, ok := seen[card.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate card id %d", model.ErrConfiguration, card.ID)
		}
		seen[card.ID] = struct{}{}

		if card.Name == "" {
			return nil, fmt.Errorf("%w: card %d has empty name", model.ErrConfiguration, card.ID)
		}
		if !card.Rarity.Valid() {
			return nil, fmt.Errorf("%w: card %d has invalid rarity", model.ErrConfiguration, card.ID)
		}
		if !card.Type.Valid() {
			return nil, fmt.Errorf("%w: card %d has invalid type %q", model.ErrConfiguration, card.ID, card.Type)
		}
		if card.Cost < 0 {
			return nil, fmt.Errorf("%w: card %d has negative cost", model.ErrConfiguration, card.ID)
		}
	}
	return cards, nil
}

func loadPacks(path string) (map[string]*PackType, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrConfiguration, path, err)
	}

	var rows []*packTypeRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", model.ErrConfiguration, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: pack table is empty", model.ErrConfiguration)
	}

	packs := make(map[string]*PackType, len(rows))
	for _, row := range rows {
		pack, err := buildPack(row)
		if err != nil {
			return nil, err
		}
		if _, ok := packs[pack.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate pack type %q", model.ErrConfiguration, pack.Name)
		}
		packs[pack.Name] = pack
	}
	return packs, nil
}

func buildPack(row *packTypeRow) (*PackType, error) {
	if row.Name == "" {
		return nil, fmt.Errorf("%w: pack type with empty name", model.ErrConfiguration)
	}
	if row.MaxBatch <= 0 {
		return nil, fmt.Errorf("%w: pack %q has non-positive max_batch", model.ErrConfiguration, row.Name)
	}
	if row.PityThreshold <= 0 {
		return nil, fmt.Errorf("%w: pack %q has non-positive pity_threshold", model.ErrConfiguration, row.Name)
	}

	weights := make(map[model.Rarity]float64, len(row.Weights))
	for name, w := range row.Weights {
		r, err := model.ParseRarity(name)
		if err != nil {
			return nil, fmt.Errorf("%w: pack %q weight table: %v", model.ErrConfiguration, row.Name, err)
		}
		weights[r] = w
	}

	dist, err := rarity.NewDistribution(weights)
	if err != nil {
		return nil, fmt.Errorf("pack %q: %w", row.Name, err)
	}

	// 合格稀有度按池配置，缺省为 epic
	qualifying := model.RarityEpic
	if row.QualifyingRarity != "" {
		qualifying, err = model.ParseRarity(row.QualifyingRarity)
		if err != nil {
			return nil, fmt.Errorf("%w: pack %q qualifying_rarity: %v", model.ErrConfiguration, row.Name, err)
		}
	}

	// 保底窗口必须能兑现：权重表里要存在 >= 合格稀有度的档位
	hasQualifying := false
	for r, w := range weights {
		if r >= qualifying && w > 0 {
			hasQualifying = true
			break
		}
	}
	if !hasQualifying {
		return nil, fmt.Errorf("%w: pack %q has no weighted tier at or above qualifying rarity %s",
			model.ErrConfiguration, row.Name, qualifying)
	}

	return &PackType{
		Name:             row.Name,
		MaxBatch:         row.MaxBatch,
		Weights:          weights,
		QualifyingRarity: qualifying,
		PityThreshold:    row.PityThreshold,
		PoolTags:         row.PoolTags,
		dist:             dist,
	}, nil
}

func loadDeckRules(path string) (*DeckRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 卡组规则表可缺省
			return DefaultDeckRules(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrConfiguration, path, err)
	}

	var row deckRulesRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", model.ErrConfiguration, path, err)
	}

	rules := DefaultDeckRules()
	if row.MaxDeckSize > 0 {
		rules.MaxDeckSize = row.MaxDeckSize
	}
	for name, limit := range row.CopyLimits {
		r, err := model.ParseRarity(name)
		if err != nil {
			return nil, fmt.Errorf("%w: deck rules copy_limits: %v", model.ErrConfiguration, err)
		}
		if limit <= 0 {
			return nil, fmt.Errorf("%w: copy limit for %s must be positive", model.ErrConfiguration, r)
		}
		rules.CopyLimits[r] = limit
	}
	return rules, nil
}
