package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/rarity"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollRejectsUnknownPack(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t)

	result, err := svc.Roll(context.Background(), 1, "mystery", 1)
	require.Nil(t, result)
	require.ErrorIs(t, err, model.ErrValidation)
	require.ErrorIs(t, err, model.ErrUnknownPackType)
}

func TestRollRejectsBadCount(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t)

	tests := []struct {
		name  string
		count int32
	}{
		{"zero", 0},
		{"negative", -3},
		{"above max batch", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Roll(context.Background(), 1, "standard", tt.count)
			require.Nil(t, result)
			require.ErrorIs(t, err, model.ErrInvalidCount)
		})
	}
}

// 脚本随机源恒返回 0.0，grind 池里永远自然出 common，
// 连续 9 抽推进计数到 9，第 10 抽必须保底强制出 epic 并清零
func TestRollPityGuaranteeAtThreshold(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t, WithRandomSource(newScriptSource(0.0)))
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		result, err := svc.Roll(ctx, 1, "grind", 1)
		require.NoError(t, err)
		require.Len(t, result.Cards, 1)
		assert.False(t, result.Cards[0].Forced, "roll %d should not be forced", i+1)
		assert.Equal(t, model.RarityCommon, result.Cards[0].Card.Rarity)
		assert.Equal(t, int32(i+1), result.PityCounter)
	}

	result, err := svc.Roll(ctx, 1, "grind", 1)
	require.NoError(t, err)
	require.Len(t, result.Cards, 1)
	assert.True(t, result.Cards[0].Forced)
	assert.GreaterOrEqual(t, result.Cards[0].Card.Rarity, model.RarityEpic)
	assert.Equal(t, int32(0), result.PityCounter, "counter resets after forced qualifying card")
}

// 自然出到合格稀有度同样清零，不等保底
func TestRollNaturalQualifyingResetsCounter(t *testing.T) {
	env := newTestEnv(t)
	// 前三抽落 common 区间，第四抽 0.995 落入 grind 池的 epic 区间
	svc := env.rollService(t, WithRandomSource(newScriptSource(0.0, 0.0, 0.0, 0.995)))
	ctx := context.Background()

	result, err := svc.Roll(ctx, 2, "grind", 4)
	require.NoError(t, err)
	require.Len(t, result.Cards, 4)

	last := result.Cards[3]
	assert.False(t, last.Forced, "natural qualifying card is not a forced one")
	assert.Equal(t, model.RarityEpic, last.Card.Rarity)
	assert.Equal(t, int32(0), result.PityCounter)
}

// 计数单调：非合格结果每次恰好加一，绝不跳变或回退
func TestRollCounterMonotonic(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t, WithRandomSource(newScriptSource(0.0)))
	ctx := context.Background()

	prev := int32(0)
	for i := 0; i < 8; i++ {
		result, err := svc.Roll(ctx, 3, "grind", 1)
		require.NoError(t, err)
		require.Equal(t, prev+1, result.PityCounter)
		prev = result.PityCounter
	}
}

// 批量抽取内部也逐槽推进：一次 10 连里第 10 槽命中保底
func TestRollBatchHitsPityMidBatch(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t, WithRandomSource(newScriptSource(0.0)))

	result, err := svc.Roll(context.Background(), 4, "grind", 10)
	require.NoError(t, err)
	require.Len(t, result.Cards, 10)

	for i := 0; i < 9; i++ {
		assert.False(t, result.Cards[i].Forced)
	}
	assert.True(t, result.Cards[9].Forced, "10th slot of the batch must be forced")
	assert.Equal(t, int32(0), result.PityCounter)
}

// 不同卡池的保底计数互不影响
func TestRollPityIsolatedPerPack(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t, WithRandomSource(newScriptSource(0.0)))
	ctx := context.Background()

	_, err := svc.Roll(ctx, 5, "grind", 5)
	require.NoError(t, err)
	_, err = svc.Roll(ctx, 5, "standard", 3)
	require.NoError(t, err)

	states, err := svc.PityStates(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), states["grind"].Counter)
	assert.Equal(t, int32(3), states["standard"].Counter)
}

// 相同种子、相同请求序列必须产出相同的卡序列
func TestRollSeededDeterminism(t *testing.T) {
	rollSequence := func(seed uint64) []int32 {
		env := newTestEnv(t)
		svc := env.rollService(t, WithRandomSource(rarity.NewSeededSource(seed)))

		var ids []int32
		for i := 0; i < 5; i++ {
			result, err := svc.Roll(context.Background(), 6, "standard", 10)
			require.NoError(t, err)
			for _, rc := range result.Cards {
				ids = append(ids, rc.Card.ID)
			}
		}
		return ids
	}

	first := rollSequence(20260829)
	second := rollSequence(20260829)
	assert.Equal(t, first, second)
}

// 同一玩家并发 N 次单抽：串行化保证计数不丢不重
// grind 池阈值 10，脚本源永不自然出货，终值必为 N mod 10
func TestRollConcurrentSamePlayer(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t, WithRandomSource(newScriptSource(0.0)))
	ctx := context.Background()

	const n = 35
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Roll(ctx, 7, "grind", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	states, err := svc.PityStates(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(n%10), states["grind"].Counter)

	owned, err := env.repo.GetCollection(ctx, 7)
	require.NoError(t, err)
	var total int32
	for _, cnt := range owned {
		total += cnt
	}
	assert.Equal(t, int32(n), total, "every roll lands exactly one card in the collection")
}

// 落库失败时结果仍然交付：返回 ErrTransient 的同时结果非空，
// 且进程内计数已推进，后续抽取读到的是新计数
func TestRollTransientDeliversResult(t *testing.T) {
	env := newTestEnv(t)
	repo := &failingRepo{MemoryRepository: repository.NewMemoryRepository(), failSavePity: true}
	tracker := NewPityTracker(logger.NewNoop(), repo)
	t.Cleanup(func() { _ = tracker.Close() })

	svc := NewRollService(logger.NewNoop(), env.tables, env.catalog, tracker, repo, env.metrics,
		WithRandomSource(newScriptSource(0.0)))
	ctx := context.Background()

	result, err := svc.Roll(ctx, 8, "grind", 3)
	require.ErrorIs(t, err, model.ErrTransient)
	require.NotNil(t, result, "result must be delivered even when persistence fails")
	assert.Len(t, result.Cards, 3)
	assert.Equal(t, int32(3), result.PityCounter)

	// 仓储恢复后继续推进，不回退
	repo.failSavePity = false
	result, err = svc.Roll(ctx, 8, "grind", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(4), result.PityCounter)
}

// 写回器补偿：落库失败的保底状态由异步写回落到仓储
func TestRollWritebackCompensates(t *testing.T) {
	env := newTestEnv(t)
	repo := &failingRepo{MemoryRepository: repository.NewMemoryRepository(), failSavePity: true}
	tracker := NewPityTracker(logger.NewNoop(), repo)
	t.Cleanup(func() { _ = tracker.Close() })

	wb, err := NewPityWriteback(logger.NewNoop(), repo, env.metrics, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })

	svc := NewRollService(logger.NewNoop(), env.tables, env.catalog, tracker, repo, env.metrics,
		WithRandomSource(newScriptSource(0.0)), WithWriteback(wb))

	ctx := context.Background()
	_, err = svc.Roll(ctx, 9, "grind", 2)
	require.ErrorIs(t, err, model.ErrTransient)
	assert.Equal(t, 1, wb.Pending(), "failed save is queued for async write-back")

	// 仓储恢复后，重新提交的写回应落库并清空待办
	repo.failSavePity = false
	pity, err := tracker.Load(ctx, 9)
	require.NoError(t, err)
	wb.Submit(pity.Clone())

	require.Eventually(t, func() bool { return wb.Pending() == 0 }, 2*time.Second, 10*time.Millisecond)

	saved, err := repo.MemoryRepository.LoadPity(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int32(2), saved.StateFor("grind", 10).Counter)
}

func TestRollUnknownPackDoesNotTouchPity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t)
	ctx := context.Background()

	_, err := svc.Roll(ctx, 10, "mystery", 1)
	require.Error(t, err)

	states, err := svc.PityStates(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, states)
}

// 保底状态只在首抽时建立：查询是纯读操作，
// 不得在缓存里凭空生成零计数条目，更不能随下一次落库进库
func TestPityStatesIsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rollService(t, WithRandomSource(newScriptSource(0.0)))
	ctx := context.Background()

	// 先查询再抽：查询不能给从未抽过的卡池留下状态
	states, err := svc.PityStates(ctx, 11)
	require.NoError(t, err)
	require.Empty(t, states)

	_, err = svc.Roll(ctx, 11, "grind", 1)
	require.NoError(t, err)

	saved, err := env.repo.LoadPity(ctx, 11)
	require.NoError(t, err)
	assert.Len(t, saved.States, 1, "only the rolled pack has a persisted state")
	assert.Contains(t, saved.States, "grind")

	// 抽后再查询若干次，落库内容保持不变
	for i := 0; i < 3; i++ {
		_, err = svc.PityStates(ctx, 11)
		require.NoError(t, err)
	}
	_, err = svc.Roll(ctx, 11, "grind", 1)
	require.NoError(t, err)

	saved, err = env.repo.LoadPity(ctx, 11)
	require.NoError(t, err)
	assert.Len(t, saved.States, 1)
	assert.Equal(t, int32(2), saved.States["grind"].Counter)
}
