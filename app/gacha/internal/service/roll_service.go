package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/cardwish/app/gacha/internal/catalog"
	"github.com/lk2023060901/cardwish/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/cardwish/app/gacha/internal/metrics"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/rarity"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/lk2023060901/cardwish/pkg/util/keymutex"
)

// RollService 抽卡引擎
// 单个玩家的请求串行化（按键互斥），不同玩家互不阻塞
type RollService struct {
	logger    logger.Logger
	tables    *gameconfig.Tables
	catalog   *catalog.Catalog
	tracker   *PityTracker
	repo      repository.PlayerRepository
	metrics   *metrics.GachaMetrics
	rng       rarity.RandomSource
	locks     *keymutex.KeyMutex
	writeback *PityWriteback
}

// RollOption 抽卡引擎选项
type RollOption func(*RollService)

// WithRandomSource 注入随机源（种子回放测试用）
func WithRandomSource(rng rarity.RandomSource) RollOption {
	return func(s *RollService) { s.rng = rng }
}

// WithWriteback 注入异步写回器
func WithWriteback(w *PityWriteback) RollOption {
	return func(s *RollService) { s.writeback = w }
}

// NewRollService 创建抽卡引擎
func NewRollService(
	l logger.Logger,
	tables *gameconfig.Tables,
	cat *catalog.Catalog,
	tracker *PityTracker,
	repo repository.PlayerRepository,
	m *metrics.GachaMetrics,
	opts ...RollOption,
) *RollService {
	s := &RollService{
		logger:  l.Named("service.roll"),
		tables:  tables,
		catalog: cat,
		tracker: tracker,
		repo:    repo,
		metrics: m,
		rng:     rarity.DefaultSource(),
		locks:   keymutex.New(256),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roll 抽卡主逻辑
// 返回 ErrTransient 时 RollResult 仍然有效：结果已产出且交付，
// 只是保底落库进入异步补偿，调用方必须同时处理两个返回值
func (s *RollService) Roll(ctx context.Context, playerID int64, packName string, count int32) (*model.RollResult, error) {
	pack, ok := s.tables.Pack(packName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownPackType, packName)
	}
	if count <= 0 || count > pack.MaxBatch {
		return nil, fmt.Errorf("%w: count %d not in [1, %d]", model.ErrInvalidCount, count, pack.MaxBatch)
	}

	start := time.Now()
	defer func() {
		s.metrics.RollDuration.WithLabelValues(packName).Observe(time.Since(start).Seconds())
	}()

	// 同一玩家全程互斥：两个并发请求绝不能读到同一份计数各自加一
	s.locks.LockInt64(playerID)
	defer s.locks.UnlockInt64(playerID)

	pity, err := s.tracker.Load(ctx, playerID)
	if err != nil {
		s.metrics.RollTotal.WithLabelValues(packName, "error").Inc()
		return nil, fmt.Errorf("%w: %v", model.ErrTransient, err)
	}
	st := pity.StateFor(packName, pack.PityThreshold)

	result := &model.RollResult{
		PackType: packName,
		Cards:    make([]model.RolledCard, 0, count),
	}
	cardIDs := make([]int32, 0, count)

	// 逐槽顺序解析：每槽的保底判定依赖上一槽已记录的结果
	for i := int32(0); i < count; i++ {
		forced := s.tracker.ShouldForce(st)

		var tier model.Rarity
		if forced {
			tier = pack.ForcedRarity()
		} else {
			tier = pack.Distribution().Sample(s.rng)
		}

		card, err := s.resolveCard(tier, packName)
		if err != nil {
			s.metrics.RollTotal.WithLabelValues(packName, "error").Inc()
			return nil, err
		}

		// 出卡后立刻推进计数，再进入下一槽
		s.tracker.RecordResult(st, card.Rarity, pack.QualifyingRarity)

		result.Cards = append(result.Cards, model.RolledCard{Card: card, Forced: forced})
		cardIDs = append(cardIDs, card.ID)

		s.metrics.CardsRolled.WithLabelValues(packName, card.Rarity.String()).Inc()
		if forced {
			s.metrics.PityForced.WithLabelValues(packName).Inc()
		}
	}
	result.PityCounter = st.Counter

	// 结果已经产出，之后的持久化失败一律降级，绝不丢弃结果
	var transient error

	if _, err := s.repo.AddToCollection(ctx, playerID, cardIDs); err != nil {
		s.logger.Error("failed to persist rolled cards", "player_id", playerID, "error", err)
		transient = err
	}

	if err := s.tracker.Save(ctx, pity); err != nil {
		s.logger.Error("failed to persist pity state", "player_id", playerID, "error", err)
		s.metrics.PitySaveFailures.Inc()
		if s.writeback != nil {
			s.writeback.Submit(pity.Clone())
		}
		transient = err
	}

	if transient != nil {
		s.metrics.RollTotal.WithLabelValues(packName, "degraded").Inc()
		return result, fmt.Errorf("%w: %v", model.ErrTransient, transient)
	}

	s.metrics.RollTotal.WithLabelValues(packName, "ok").Inc()
	return result, nil
}

// PityStates 查询玩家各卡池的保底状态（观测接口）
func (s *RollService) PityStates(ctx context.Context, playerID int64) (map[string]*model.PityState, error) {
	s.locks.LockInt64(playerID)
	defer s.locks.UnlockInt64(playerID)

	pity, err := s.tracker.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTransient, err)
	}

	// 只读视图：状态在首抽时才建立，查询绝不往缓存里写入新条目
	out := make(map[string]*model.PityState, len(pity.States))
	for name, st := range pity.States {
		pack, ok := s.tables.Pack(name)
		if !ok {
			// 卡池已下架，保留落库的原值
			out[name] = &model.PityState{Counter: st.Counter, Threshold: st.Threshold}
			continue
		}
		counter := st.Counter
		if counter > pack.PityThreshold {
			counter = pack.PityThreshold
		}
		out[name] = &model.PityState{Counter: counter, Threshold: pack.PityThreshold}
	}
	return out, nil
}

func (s *RollService) resolveCard(tier model.Rarity, packName string) (*model.Card, error) {
	pool := s.catalog.ListByRarityAndPack(tier, packName)
	if len(pool) == 0 {
		// 装载期已做可达性校验，此处命中说明目录与卡池配置脱节
		return nil, fmt.Errorf("%w: empty pool for rarity %s in pack %q", model.ErrConfiguration, tier, packName)
	}
	return pool[s.rng.IntN(len(pool))], nil
}
