package service

import (
	"context"
	"testing"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) (*PityTracker, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	tracker := NewPityTracker(logger.NewNoop(), repo)
	t.Cleanup(func() { _ = tracker.Close() })
	return tracker, repo
}

func TestShouldForceBoundary(t *testing.T) {
	tracker, _ := newTracker(t)

	tests := []struct {
		counter int32
		force   bool
	}{
		{0, false},
		{48, false},
		{49, true}, // 阈值减一：本抽是窗口内最后一抽
		{50, true},
	}

	for _, tt := range tests {
		st := &model.PityState{Counter: tt.counter, Threshold: 50}
		assert.Equal(t, tt.force, tracker.ShouldForce(st), "counter=%d", tt.counter)
	}
}

func TestRecordResultAdvancesAndResets(t *testing.T) {
	tracker, _ := newTracker(t)
	st := &model.PityState{Counter: 0, Threshold: 50}

	// 不合格结果逐次加一
	tracker.RecordResult(st, model.RarityCommon, model.RarityEpic)
	assert.Equal(t, int32(1), st.Counter)
	tracker.RecordResult(st, model.RarityRare, model.RarityEpic)
	assert.Equal(t, int32(2), st.Counter)

	// 合格及以上清零
	tracker.RecordResult(st, model.RarityEpic, model.RarityEpic)
	assert.Equal(t, int32(0), st.Counter)
	tracker.RecordResult(st, model.RarityCommon, model.RarityEpic)
	tracker.RecordResult(st, model.RarityCosmic, model.RarityEpic)
	assert.Equal(t, int32(0), st.Counter, "rarity above qualifying also resets")
}

func TestRecordResultNeverExceedsThreshold(t *testing.T) {
	tracker, _ := newTracker(t)
	st := &model.PityState{Counter: 49, Threshold: 50}

	tracker.RecordResult(st, model.RarityCommon, model.RarityEpic)
	tracker.RecordResult(st, model.RarityCommon, model.RarityEpic)
	assert.Equal(t, int32(50), st.Counter, "counter is clamped at the threshold")
}

func TestTrackerSaveThenLoadRoundTrip(t *testing.T) {
	tracker, repo := newTracker(t)
	ctx := context.Background()

	pity, err := tracker.Load(ctx, 100)
	require.NoError(t, err)
	st := pity.StateFor("standard", 50)
	st.Counter = 7
	require.NoError(t, tracker.Save(ctx, pity))

	// 进程内缓存命中
	got, err := tracker.Load(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int32(7), got.StateFor("standard", 50).Counter)

	// 仓储侧也已落库
	saved, err := repo.LoadPity(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int32(7), saved.StateFor("standard", 50).Counter)
}

// 落库失败时缓存先行：已交付的结果必须体现在后续读取里
func TestTrackerSaveCachesBeforePersist(t *testing.T) {
	repo := &failingRepo{MemoryRepository: repository.NewMemoryRepository(), failSavePity: true}
	tracker := NewPityTracker(logger.NewNoop(), repo)
	t.Cleanup(func() { _ = tracker.Close() })
	ctx := context.Background()

	pity, err := tracker.Load(ctx, 101)
	require.NoError(t, err)
	pity.StateFor("standard", 50).Counter = 3

	require.Error(t, tracker.Save(ctx, pity))

	got, err := tracker.Load(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int32(3), got.StateFor("standard", 50).Counter)
}

// 阈值配置变更后，已存状态向新阈值收敛并夹取计数
func TestStateForResyncsThreshold(t *testing.T) {
	pity := model.NewPlayerPity(102)
	st := pity.StateFor("standard", 50)
	st.Counter = 40

	st = pity.StateFor("standard", 20)
	assert.Equal(t, int32(20), st.Threshold)
	assert.Equal(t, int32(20), st.Counter, "counter clamps into the new window")
}
