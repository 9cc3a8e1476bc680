package repository

import (
	"Mintora/internal/model"
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCoinRepo 进程内实现，creatorID 唯一
type MemoryCoinRepo struct {
	mu     sync.RWMutex
	nextID uint64
	coins  map[string]*model.CreatorCoin
}

func NewMemoryCoinRepo() *MemoryCoinRepo {
	return &MemoryCoinRepo{coins: make(map[string]*model.CreatorCoin)}
}

func (s *MemoryCoinRepo) GetByCreator(_ context.Context, creatorID string) (*model.CreatorCoin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coin, ok := s.coins[creatorID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *coin
	return &c, nil
}

func (s *MemoryCoinRepo) GetByAddress(_ context.Context, address string) (*model.CreatorCoin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, coin := range s.coins {
		if strings.EqualFold(coin.CoinAddress, address) {
			c := *coin
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryCoinRepo) Create(_ context.Context, coin *model.CreatorCoin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.coins[coin.CreatorID]; ok {
		return ErrDuplicateKey
	}
	for _, existing := range s.coins {
		if strings.EqualFold(existing.CoinAddress, coin.CoinAddress) {
			return ErrDuplicateKey
		}
	}

	s.nextID++
	coin.ID = s.nextID
	if coin.CreatedAt.IsZero() {
		coin.CreatedAt = time.Now()
	}
	c := *coin
	s.coins[coin.CreatorID] = &c
	return nil
}
