package repository

import (
	"Mintora/internal/model"
	"context"

	"gorm.io/gorm"
)

type CoinRepo interface {
	GetByCreator(ctx context.Context, creatorID string) (*model.CreatorCoin, error)
	GetByAddress(ctx context.Context, address string) (*model.CreatorCoin, error)
	// Create 插入代币，creator_id 冲突时返回 ErrDuplicateKey
	Create(ctx context.Context, coin *model.CreatorCoin) error
}

type CoinRepoImpl struct {
	db *gorm.DB
}

func NewCoinRepo(db *gorm.DB) CoinRepo {
	return &CoinRepoImpl{db: db}
}

func (s *CoinRepoImpl) GetByCreator(ctx context.Context, creatorID string) (*model.CreatorCoin, error) {
	var coin model.CreatorCoin
	err := s.db.WithContext(ctx).Where("creator_id = ?", creatorID).First(&coin).Error
	if err != nil {
		return nil, err
	}
	return &coin, nil
}

func (s *CoinRepoImpl) GetByAddress(ctx context.Context, address string) (*model.CreatorCoin, error) {
	var coin model.CreatorCoin
	err := s.db.WithContext(ctx).Where("coin_address = ?", address).First(&coin).Error
	if err != nil {
		return nil, err
	}
	return &coin, nil
}

func (s *CoinRepoImpl) Create(ctx context.Context, coin *model.CreatorCoin) error {
	err := s.db.WithContext(ctx).Create(coin).Error
	if IsDuplicateKey(err) {
		return ErrDuplicateKey
	}
	return err
}
