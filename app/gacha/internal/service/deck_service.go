package service

import (
	"context"
	"fmt"

	"github.com/lk2023060901/cardwish/app/gacha/internal/catalog"
	"github.com/lk2023060901/cardwish/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/cardwish/app/gacha/internal/metrics"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/logger"
)

// DeckService 卡组校验与保存
type DeckService struct {
	logger  logger.Logger
	rules   *gameconfig.DeckRules
	catalog *catalog.Catalog
	repo    repository.PlayerRepository
	metrics *metrics.GachaMetrics
}

// NewDeckService 创建卡组服务
func NewDeckService(
	l logger.Logger,
	rules *gameconfig.DeckRules,
	cat *catalog.Catalog,
	repo repository.PlayerRepository,
	m *metrics.GachaMetrics,
) *DeckService {
	return &DeckService{
		logger:  l.Named("service.deck"),
		rules:   rules,
		catalog: cat,
		repo:    repo,
		metrics: m,
	}
}

// Validate 校验卡组，纯函数，按序短路：
//  1. 张数在 [1, MaxDeckSize]
//  2. 每张卡都在玩家收藏内（含份数）
//  3. 同卡份数不超过该稀有度的上限
func (s *DeckService) Validate(deck *model.Deck, owned model.Collection) error {
	size := int32(deck.Size())
	if size < 1 || size > s.rules.MaxDeckSize {
		return fmt.Errorf("%w: size %d not in [1, %d]", model.ErrDeckSize, size, s.rules.MaxDeckSize)
	}

	copies := deck.Copies()

	for id, n := range copies {
		if owned.Count(id) < n {
			return fmt.Errorf("%w: card %d (%d in deck, %d owned)", model.ErrUnownedCard, id, n, owned.Count(id))
		}
	}

	for id, n := range copies {
		card, ok := s.catalog.GetByID(id)
		if !ok {
			// 收藏里可能残留已下架的卡，组卡时一律拒绝
			return fmt.Errorf("%w: card %d not in catalog", model.ErrUnknownCard, id)
		}
		if limit := s.rules.CopyLimit(card.Rarity); n > limit {
			return fmt.Errorf("%w: card %d has %d copies, %s allows %d",
				model.ErrDuplicateLimit, id, n, card.Rarity, limit)
		}
	}

	return nil
}

// ValidateForPlayer 加载玩家收藏后校验卡组
func (s *DeckService) ValidateForPlayer(ctx context.Context, playerID int64, deck *model.Deck) error {
	owned, err := s.repo.GetCollection(ctx, playerID)
	if err != nil {
		return fmt.Errorf("%w: load collection: %v", model.ErrTransient, err)
	}

	if err := s.Validate(deck, owned); err != nil {
		s.metrics.DeckValidated.WithLabelValues(string(model.DeckErrorKindOf(err))).Inc()
		return err
	}
	s.metrics.DeckValidated.WithLabelValues("ok").Inc()
	return nil
}

// SaveActive 校验通过后替换玩家当前卡组
func (s *DeckService) SaveActive(ctx context.Context, playerID int64, deck *model.Deck) error {
	if err := s.ValidateForPlayer(ctx, playerID, deck); err != nil {
		return err
	}

	if err := s.repo.SaveActiveDeck(ctx, playerID, deck); err != nil {
		return fmt.Errorf("%w: save deck: %v", model.ErrTransient, err)
	}

	s.logger.Info("active deck replaced", "player_id", playerID, "size", deck.Size())
	return nil
}

// Cost 卡组总费用（展示用）
func (s *DeckService) Cost(deck *model.Deck) int32 {
	var total int32
	for _, id := range deck.Cards {
		if card, ok := s.catalog.GetByID(id); ok {
			total += card.Cost
		}
	}
	return total
}
