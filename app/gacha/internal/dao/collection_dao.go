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

// CollectionDAO 玩家收藏数据访问对象
type CollectionDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewCollectionDAO 创建收藏 DAO
func NewCollectionDAO(db *postgres.Client, l logger.Logger, m *metrics.GachaMetrics) *CollectionDAO {
	return &CollectionDAO{
		db:      db,
		logger:  l.Named("dao.collection"),
		metrics: m,
	}
}

// GetByPlayerID 查询玩家收藏，无记录返回空集合
func (d *CollectionDAO) GetByPlayerID(ctx context.Context, playerID int64) (model.Collection, error) {
	query, args, err := squirrel.
		Select("cards").
		From("player_collection").
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
			return model.Collection{}, nil
		}
		d.metrics.RecordDBQuery("select", false)
		return nil, fmt.Errorf("failed to get player collection: %w", err)
	}
	d.metrics.RecordDBQuery("select", true)

	var collection model.Collection
	if err := json.Unmarshal(cardsJSON, &collection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection: %w", err)
	}
	return collection, nil
}

// Save 保存玩家收藏（upsert）
func (d *CollectionDAO) Save(ctx context.Context, playerID int64, collection model.Collection) error {
	cardsJSON, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	query, args, err := squirrel.
		Insert("player_collection").
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
		d.logger.Error("failed to save collection", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to save collection: %w", err)
	}
	d.metrics.RecordDBQuery("upsert", true)
	return nil
}
