package repository

import (
	"context"

	"github.com/lk2023060901/cardwish/app/gacha/internal/dao"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/pkg/logger"
)

// PlayerRepository 玩家聚合仓储接口
// 保底状态的 load/save 即引擎对外部存储的全部依赖面
type PlayerRepository interface {
	// ===== 保底相关 =====
	LoadPity(ctx context.Context, playerID int64) (*model.PlayerPity, error)
	SavePity(ctx context.Context, pity *model.PlayerPity) error

	// ===== 收藏相关 =====
	GetCollection(ctx context.Context, playerID int64) (model.Collection, error)
	AddToCollection(ctx context.Context, playerID int64, cardIDs []int32) (model.Collection, error)

	// ===== 卡组相关 =====
	GetActiveDeck(ctx context.Context, playerID int64) (*model.Deck, error)
	SaveActiveDeck(ctx context.Context, playerID int64, deck *model.Deck) error
}

// playerRepositoryImpl 玩家仓储实现：postgres 落库 + redis 旁路缓存
type playerRepositoryImpl struct {
	pityDAO       *dao.PityDAO
	collectionDAO *dao.CollectionDAO
	deckDAO       *dao.DeckDAO
	cacheDAO      *dao.CacheDAO
	logger        logger.Logger
}

// NewPlayerRepository 创建玩家仓储
func NewPlayerRepository(
	pityDAO *dao.PityDAO,
	collectionDAO *dao.CollectionDAO,
	deckDAO *dao.DeckDAO,
	cacheDAO *dao.CacheDAO,
	l logger.Logger,
) PlayerRepository {
	return &playerRepositoryImpl{
		pityDAO:       pityDAO,
		collectionDAO: collectionDAO,
		deckDAO:       deckDAO,
		cacheDAO:      cacheDAO,
		logger:        l.Named("repository.player"),
	}
}

func (r *playerRepositoryImpl) LoadPity(ctx context.Context, playerID int64) (*model.PlayerPity, error) {
	// 缓存读失败只降级，不阻断
	if pity, err := r.cacheDAO.GetPity(ctx, playerID); err == nil && pity != nil {
		return pity, nil
	}

	pity, err := r.pityDAO.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err := r.cacheDAO.SetPity(ctx, pity); err != nil {
		r.logger.Warn("failed to backfill pity cache", "player_id", playerID, "error", err)
	}
	return pity, nil
}

func (r *playerRepositoryImpl) SavePity(ctx context.Context, pity *model.PlayerPity) error {
	if err := r.pityDAO.Save(ctx, pity); err != nil {
		// 落库失败时失效缓存，避免重启后读到比库新的计数
		if delErr := r.cacheDAO.DelPity(ctx, pity.PlayerID); delErr != nil {
			r.logger.Warn("failed to invalidate pity cache", "player_id", pity.PlayerID, "error", delErr)
		}
		return err
	}

	if err := r.cacheDAO.SetPity(ctx, pity); err != nil {
		r.logger.Warn("failed to refresh pity cache", "player_id", pity.PlayerID, "error", err)
	}
	return nil
}

func (r *playerRepositoryImpl) GetCollection(ctx context.Context, playerID int64) (model.Collection, error) {
	if collection, err := r.cacheDAO.GetCollection(ctx, playerID); err == nil && collection != nil {
		return collection, nil
	}

	collection, err := r.collectionDAO.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err := r.cacheDAO.SetCollection(ctx, playerID, collection); err != nil {
		r.logger.Warn("failed to backfill collection cache", "player_id", playerID, "error", err)
	}
	return collection, nil
}

func (r *playerRepositoryImpl) AddToCollection(ctx context.Context, playerID int64, cardIDs []int32) (model.Collection, error) {
	collection, err := r.collectionDAO.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	for _, id := range cardIDs {
		collection.Add(id, 1)
	}

	if err := r.collectionDAO.Save(ctx, playerID, collection); err != nil {
		return nil, err
	}

	if err := r.cacheDAO.SetCollection(ctx, playerID, collection); err != nil {
		r.logger.Warn("failed to refresh collection cache", "player_id", playerID, "error", err)
	}
	return collection, nil
}

func (r *playerRepositoryImpl) GetActiveDeck(ctx context.Context, playerID int64) (*model.Deck, error) {
	return r.deckDAO.GetByPlayerID(ctx, playerID)
}

func (r *playerRepositoryImpl) SaveActiveDeck(ctx context.Context, playerID int64, deck *model.Deck) error {
	return r.deckDAO.Save(ctx, playerID, deck)
}
