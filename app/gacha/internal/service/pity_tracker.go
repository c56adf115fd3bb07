package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/cache/lru"
	"github.com/lk2023060901/cardwish/pkg/logger"
)

// PityTracker 保底状态追踪器
// 只负责进程内缓存与计数规则，存储引擎在仓储后面
type PityTracker struct {
	logger logger.Logger
	repo   repository.PlayerRepository
	cache  *lru.LRU[int64, *model.PlayerPity]
}

// NewPityTracker 创建保底追踪器
func NewPityTracker(l logger.Logger, repo repository.PlayerRepository) *PityTracker {
	return &PityTracker{
		logger: l.Named("service.pity"),
		repo:   repo,
		cache: lru.New[int64, *model.PlayerPity](&lru.Config{
			MaxSize:         65536,
			DefaultTTL:      30 * time.Minute,
			CleanupInterval: time.Minute,
		}),
	}
}

// Load 取玩家保底记录，进程内缓存优先
// 调用方需已持有该玩家的互斥段，缓存内对象不做并发保护
func (t *PityTracker) Load(ctx context.Context, playerID int64) (*model.PlayerPity, error) {
	if pity, ok := t.cache.Get(playerID); ok {
		return pity, nil
	}

	pity, err := t.repo.LoadPity(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load pity for player %d: %w", playerID, err)
	}

	t.cache.Set(playerID, pity)
	return pity, nil
}

// ShouldForce 下一抽是否必须保底强制
// 计数达到阈值减一时，本抽必须出合格稀有度，保证窗口内兑现
func (t *PityTracker) ShouldForce(st *model.PityState) bool {
	return st.Counter >= st.Threshold-1
}

// RecordResult 记录一抽的结果并推进计数
// 达到合格稀有度清零，否则加一；计数永不越出 [0, Threshold]
func (t *PityTracker) RecordResult(st *model.PityState, achieved, qualifying model.Rarity) {
	if achieved >= qualifying {
		st.Counter = 0
		return
	}
	st.Counter++
	if st.Counter > st.Threshold {
		st.Counter = st.Threshold
	}
}

// Save 持久化玩家保底记录
// 无论落库成败，进程内缓存先行更新：结果已交付给玩家，
// 计数必须体现已发生的抽取，落库失败走异步写回补偿
func (t *PityTracker) Save(ctx context.Context, pity *model.PlayerPity) error {
	t.cache.Set(pity.PlayerID, pity)

	if err := t.repo.SavePity(ctx, pity); err != nil {
		return fmt.Errorf("save pity for player %d: %w", pity.PlayerID, err)
	}
	return nil
}

// Close 停止缓存后台清理
func (t *PityTracker) Close() error {
	return t.cache.Close()
}
