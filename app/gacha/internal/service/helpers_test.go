package service

import (
	"context"
	"sync"
	"testing"

	"github.com/lk2023060901/cardwish/app/gacha/internal/catalog"
	"github.com/lk2023060901/cardwish/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/cardwish/app/gacha/internal/metrics"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/stretchr/testify/require"
)

// testEnv 服务层测试环境，基于内存仓储与 testdata 配置表
type testEnv struct {
	tables  *gameconfig.Tables
	catalog *catalog.Catalog
	repo    repository.PlayerRepository
	tracker *PityTracker
	metrics *metrics.GachaMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tables, err := gameconfig.Load("testdata", logger.NewNoop())
	require.NoError(t, err)

	cat, err := catalog.Build(tables)
	require.NoError(t, err)

	repo := repository.NewMemoryRepository()
	tracker := NewPityTracker(logger.NewNoop(), repo)
	t.Cleanup(func() { _ = tracker.Close() })

	return &testEnv{
		tables:  tables,
		catalog: cat,
		repo:    repo,
		tracker: tracker,
		metrics: metrics.New(nil),
	}
}

func (e *testEnv) rollService(t *testing.T, opts ...RollOption) *RollService {
	t.Helper()
	return NewRollService(logger.NewNoop(), e.tables, e.catalog, e.tracker, e.repo, e.metrics, opts...)
}

func (e *testEnv) deckService(t *testing.T) *DeckService {
	t.Helper()
	return NewDeckService(logger.NewNoop(), e.tables.Deck, e.catalog, e.repo, e.metrics)
}

// scriptSource 按脚本回放 Float64，耗尽后循环；IntN 恒为 0
// 并发安全，供串行化测试使用
type scriptSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func newScriptSource(values ...float64) *scriptSource {
	return &scriptSource{values: values}
}

func (s *scriptSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *scriptSource) IntN(n int) int { return 0 }

// failingRepo 包装内存仓储，可按开关令保底落库失败
type failingRepo struct {
	*repository.MemoryRepository
	failSavePity bool
}

func (r *failingRepo) SavePity(ctx context.Context, pity *model.PlayerPity) error {
	if r.failSavePity {
		return context.DeadlineExceeded
	}
	return r.MemoryRepository.SavePity(ctx, pity)
}
