package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/cardwish/app/gacha/internal/metrics"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/pkg/database/redis"
	"github.com/lk2023060901/cardwish/pkg/logger"
)

const (
	pityKeyPrefix       = "cache:pity:"
	collectionKeyPrefix = "cache:collection:"

	pityCacheTTL       = 30 * time.Minute
	collectionCacheTTL = 10 * time.Minute
)

// CacheDAO 缓存数据访问对象（redis 层）
type CacheDAO struct {
	redis   *redis.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewCacheDAO 创建缓存 DAO
func NewCacheDAO(rdb *redis.Client, l logger.Logger, m *metrics.GachaMetrics) *CacheDAO {
	return &CacheDAO{
		redis:   rdb,
		logger:  l.Named("dao.cache"),
		metrics: m,
	}
}

// GetPity 从缓存获取保底记录，未命中返回 nil
func (d *CacheDAO) GetPity(ctx context.Context, playerID int64) (*model.PlayerPity, error) {
	key := fmt.Sprintf("%s%d", pityKeyPrefix, playerID)

	pity, err := redis.GetObject[model.PlayerPity](d.redis, ctx, key)
	if err != nil {
		if err == redis.ErrNil {
			d.metrics.RecordCache("redis", false)
			return nil, nil
		}
		d.logger.Error("failed to get pity from cache", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to get pity from cache: %w", err)
	}

	d.metrics.RecordCache("redis", true)
	return pity, nil
}

// SetPity 写入保底缓存
func (d *CacheDAO) SetPity(ctx context.Context, pity *model.PlayerPity) error {
	key := fmt.Sprintf("%s%d", pityKeyPrefix, pity.PlayerID)
	if err := redis.SetObject(d.redis, ctx, key, pity, pityCacheTTL); err != nil {
		d.logger.Error("failed to set pity cache", "player_id", pity.PlayerID, "error", err)
		return err
	}
	return nil
}

// DelPity 失效保底缓存（落库失败后防止脏读）
func (d *CacheDAO) DelPity(ctx context.Context, playerID int64) error {
	key := fmt.Sprintf("%s%d", pityKeyPrefix, playerID)
	return d.redis.Del(ctx, key)
}

// GetCollection 从缓存获取收藏，未命中返回 nil
func (d *CacheDAO) GetCollection(ctx context.Context, playerID int64) (model.Collection, error) {
	key := fmt.Sprintf("%s%d", collectionKeyPrefix, playerID)

	collection, err := redis.GetObject[model.Collection](d.redis, ctx, key)
	if err != nil {
		if err == redis.ErrNil {
			d.metrics.RecordCache("redis", false)
			return nil, nil
		}
		d.logger.Error("failed to get collection from cache", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to get collection from cache: %w", err)
	}

	d.metrics.RecordCache("redis", true)
	return *collection, nil
}

// SetCollection 写入收藏缓存
func (d *CacheDAO) SetCollection(ctx context.Context, playerID int64, collection model.Collection) error {
	key := fmt.Sprintf("%s%d", collectionKeyPrefix, playerID)
	if err := redis.SetObject(d.redis, ctx, key, &collection, collectionCacheTTL); err != nil {
		d.logger.Error("failed to set collection cache", "player_id", playerID, "error", err)
		return err
	}
	return nil
}

// DelCollection 失效收藏缓存
func (d *CacheDAO) DelCollection(ctx context.Context, playerID int64) error {
	key := fmt.Sprintf("%s%d", collectionKeyPrefix, playerID)
	return d.redis.Del(ctx, key)
}
