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

// PityDAO 保底状态数据访问对象
type PityDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewPityDAO 创建保底 DAO
func NewPityDAO(db *postgres.Client, l logger.Logger, m *metrics.GachaMetrics) *PityDAO {
	return &PityDAO{
		db:      db,
		logger:  l.Named("dao.pity"),
		metrics: m,
	}
}

// GetByPlayerID 查询玩家保底记录，无记录返回空记录
func (d *PityDAO) GetByPlayerID(ctx context.Context, playerID int64) (*model.PlayerPity, error) {
	query, args, err := squirrel.
		Select("states").
		From("player_pity").
		Where(squirrel.Eq{"player_id": playerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var statesJSON []byte
	err = d.db.QueryRow(ctx, query, args...).Scan(&statesJSON)
	if err != nil {
		if err == postgres.ErrNoRows {
			d.metrics.RecordDBQuery("select", true)
			return model.NewPlayerPity(playerID), nil
		}
		d.metrics.RecordDBQuery("select", false)
		return nil, fmt.Errorf("failed to get player pity: %w", err)
	}
	d.metrics.RecordDBQuery("select", true)

	var states map[string]*model.PityState
	if err := json.Unmarshal(statesJSON, &states); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pity states: %w", err)
	}

	return &model.PlayerPity{PlayerID: playerID, States: states}, nil
}

// Save 保存玩家保底记录（upsert）
func (d *PityDAO) Save(ctx context.Context, pity *model.PlayerPity) error {
	statesJSON, err := json.Marshal(pity.States)
	if err != nil {
		return fmt.Errorf("failed to marshal pity states: %w", err)
	}

	query, args, err := squirrel.
		Insert("player_pity").
		Columns("player_id", "states", "updated_at").
		Values(pity.PlayerID, statesJSON, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (player_id) DO UPDATE SET states = EXCLUDED.states, updated_at = NOW()").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		d.metrics.RecordDBQuery("upsert", false)
		d.logger.Error("failed to save player pity", "player_id", pity.PlayerID, "error", err)
		return fmt.Errorf("failed to save player pity: %w", err)
	}
	d.metrics.RecordDBQuery("upsert", true)
	return nil
}
