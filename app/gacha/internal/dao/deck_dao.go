package dao

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lk2023060901/cardwish/app/gacha/internal/metrics"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/pkg/database/postgres"
	"github.com/lk2023060901/cardwish/pkg/logger"
)

// DeckDAO 卡组数据访问对象
type DeckDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewDeckDAO 创建卡组 DAO
func NewDeckDAO(db *postgres.Client, l logger.Logger, m *metrics.GachaMetrics) *DeckDAO {
	return &DeckDAO{
		db:      db,
		logger:  l.Named("dao.deck"),
		metrics: m,
	}
}

// GetByPlayerID 查询玩家当前卡组，无记录返回 nil
func (d *DeckDAO) GetByPlayerID(ctx context.Context, playerID int64) (*model.Deck, error) {
	query, args, err := squirrel.
		Select("cards").
		From("player_deck").
		Where(squirrel.Eq{"player_id": playerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var cardsJSON []byte
	err = d.db.QueryRow(ctx, query, args...).Scan(&cardsJSON)
	if err != nil {
		if err == postgres.ErrNoRows {
			d.metrics.RecordDBQuery("select", true)
			return nil, nil
		}
		d.metrics.RecordDBQuery("select", false)
		return nil, fmt.Errorf("failed to get player deck: %w", err)
	}
	d.metrics.RecordDBQuery("select", true)

	var deck model.Deck
	if err := json.Unmarshal(cardsJSON, &deck.Cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deck: %w", err)
	}
	return &deck, nil
}

// Save 保存玩家当前卡组（upsert），调用前必须已通过卡组校验
func (d *DeckDAO) Save(ctx context.Context, playerID int64, deck *model.Deck) error {
	cardsJSON, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}

	query, args, err := squirrel.
		Insert("player_deck").
		Columns("player_id", "cards", "updated_at").
		Values(playerID, cardsJSON, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (player_id) DO UPDATE SET cards = EXCLUDED.cards, updated_at = NOW()").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		d.metrics.RecordDBQuery("upsert", false)
		d.logger.Error("failed to save deck", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to save deck: %w", err)
	}
	d.metrics.RecordDBQuery("upsert", true)
	return nil
}
