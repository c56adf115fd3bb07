package repository

import (
	"context"
	"sync"

	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
)

// MemoryRepository 纯内存实现，本地开发与测试使用
type MemoryRepository struct {
	mu          sync.RWMutex
	pity        map[int64]*model.PlayerPity
	collections map[int64]model.Collection
	decks       map[int64]*model.Deck
}

var _ PlayerRepository = (*MemoryRepository)(nil)

// NewMemoryRepository 创建内存仓储
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pity:        make(map[int64]*model.PlayerPity),
		collections: make(map[int64]model.Collection),
		decks:       make(map[int64]*model.Deck),
	}
}

func (r *MemoryRepository) LoadPity(_ context.Context, playerID int64) (*model.PlayerPity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if pity, ok := r.pity[playerID]; ok {
		return pity.Clone(), nil
	}
	return model.NewPlayerPity(playerID), nil
}

func (r *MemoryRepository) SavePity(_ context.Context, pity *model.PlayerPity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pity[pity.PlayerID] = pity.Clone()
	return nil
}

func (r *MemoryRepository) GetCollection(_ context.Context, playerID int64) (model.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collection := make(model.Collection, len(r.collections[playerID]))
	for id, n := range r.collections[playerID] {
		collection[id] = n
	}
	return collection, nil
}

func (r *MemoryRepository) AddToCollection(_ context.Context, playerID int64, cardIDs []int32) (model.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, ok := r.collections[playerID]
	if !ok {
		collection = make(model.Collection)
		r.collections[playerID] = collection
	}
	for _, id := range cardIDs {
		collection.Add(id, 1)
	}

	out := make(model.Collection, len(collection))
	for id, n := range collection {
		out[id] = n
	}
	return out, nil
}

func (r *MemoryRepository) GetActiveDeck(_ context.Context, playerID int64) (*model.Deck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deck, ok := r.decks[playerID]
	if !ok {
		return nil, nil
	}
	out := &model.Deck{Cards: make([]int32, len(deck.Cards))}
	copy(out.Cards, deck.Cards)
	return out, nil
}

func (r *MemoryRepository) SaveActiveDeck(_ context.Context, playerID int64, deck *model.Deck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := &model.Deck{Cards: make([]int32, len(deck.Cards))}
	copy(stored.Cards, deck.Cards)
	r.decks[playerID] = stored
	return nil
}
