package service

import (
	"context"
	"sync"
	"time"

	"github.com/lk2023060901/cardwish/app/gacha/internal/metrics"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
)

const (
	writebackAttempts = 3
	writebackTimeout  = 5 * time.Second
)

// PityWriteback 保底落库失败后的异步写回
// 抽取结果一旦交付绝不回滚，落库失败进入重试队列，
// 重试耗尽后由周期清扫兜底，同时通过指标暴露给运维对账
type PityWriteback struct {
	logger  logger.Logger
	repo    repository.PlayerRepository
	metrics *metrics.GachaMetrics

	pool *ants.Pool
	cron *cron.Cron

	mu    sync.Mutex
	dirty map[int64]*model.PlayerPity // 尚未落库成功的最新状态
}

// NewPityWriteback 创建写回器并启动周期清扫
func NewPityWriteback(l logger.Logger, repo repository.PlayerRepository, m *metrics.GachaMetrics, workers int) (*PityWriteback, error) {
	if workers <= 0 {
		workers = 8
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	w := &PityWriteback{
		logger:  l.Named("service.writeback"),
		repo:    repo,
		metrics: m,
		pool:    pool,
		cron:    cron.New(),
		dirty:   make(map[int64]*model.PlayerPity),
	}

	if _, err := w.cron.AddFunc("@every 1m", w.sweep); err != nil {
		pool.Release()
		return nil, err
	}
	w.cron.Start()

	return w, nil
}

// Submit 提交一份待写回的保底状态
// 同一玩家后到的状态覆盖先到的，以最新为准
func (w *PityWriteback) Submit(pity *model.PlayerPity) {
	w.mu.Lock()
	w.dirty[pity.PlayerID] = pity
	w.mu.Unlock()

	if err := w.pool.Submit(func() { w.flush(pity.PlayerID) }); err != nil {
		// 工作池满时留给周期清扫
		w.logger.Warn("writeback pool saturated, deferring to sweep", "player_id", pity.PlayerID)
	}
}

// Pending 尚未写回成功的玩家数（观测用）
func (w *PityWriteback) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirty)
}

// Close 停止清扫与工作池
func (w *PityWriteback) Close() error {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.pool.Release()
	return nil
}

func (w *PityWriteback) flush(playerID int64) {
	w.mu.Lock()
	pity, ok := w.dirty[playerID]
	w.mu.Unlock()
	if !ok {
		return
	}

	for attempt := 1; attempt <= writebackAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), writebackTimeout)
		err := w.repo.SavePity(ctx, pity)
		cancel()

		if err == nil {
			w.metrics.PityWritebacks.WithLabelValues("ok").Inc()
			w.mu.Lock()
			// 期间有更新的话保留新状态，等下一轮
			if w.dirty[playerID] == pity {
				delete(w.dirty, playerID)
			}
			w.mu.Unlock()
			return
		}

		w.logger.Warn("pity writeback attempt failed",
			"player_id", playerID,
			"attempt", attempt,
			"error", err,
		)
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}

	// 重试耗尽，留在 dirty 表等清扫，指标告警由运维处理
	w.metrics.PityWritebacks.WithLabelValues("exhausted").Inc()
	w.logger.Error("pity writeback exhausted retries", "player_id", playerID)
}

func (w *PityWriteback) sweep() {
	w.mu.Lock()
	ids := make([]int64, 0, len(w.dirty))
	for id := range w.dirty {
		ids = append(ids, id)
	}
	w.mu.Unlock()

	if len(ids) == 0 {
		return
	}

	w.logger.Info("sweeping pending pity writebacks", "count", len(ids))
	for _, id := range ids {
		w.flush(id)
	}
}
