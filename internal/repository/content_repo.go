package repository

import (
	"Mintora/internal/model"
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortMostMinted = "most-minted"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ContentFilter 内容列表查询条件
type ContentFilter struct {
	CreatorID           string
	ContentType         string
	MinPrice            *decimal.Decimal
	MaxPrice            *decimal.Decimal
	SubscriptionEnabled *bool
	Sort                string
	Limit               int
	Offset              int
	// IncludeUnapproved 创作者查看自己的内容时为 true
	IncludeUnapproved bool
}

// Normalize 补全分页与排序默认值
func (s *ContentFilter) Normalize() {
	if s.Limit <= 0 {
		s.Limit = DefaultListLimit
	}
	if s.Limit > MaxListLimit {
		s.Limit = MaxListLimit
	}
	if s.Offset < 0 {
		s.Offset = 0
	}
	if !IsValidSort(s.Sort) {
		s.Sort = SortNewest
	}
}

// IsValidSort 判断排序键是否受支持
func IsValidSort(sort string) bool {
	switch sort {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortMostMinted:
		return true
	}
	return false
}

// ContentTerms 创作者可修改的售卖条款，nil 表示不修改
type ContentTerms struct {
	Price *decimal.Decimal
	Tags  []string
}

type ContentRepo interface {
	Insert(ctx context.Context, rec *model.ContentRecord) error
	GetByID(ctx context.Context, id uint64) (*model.ContentRecord, error)
	List(ctx context.Context, filter ContentFilter) ([]*model.ContentRecord, error)
	Trending(ctx context.Context, limit int) ([]*model.ContentRecord, error)
	IncrementMintCount(ctx context.Context, id uint64) (*model.ContentRecord, error)
	RecordMint(ctx context.Context, id uint64, txHash string) (*model.ContentRecord, error)
	UpdateStatus(ctx context.Context, id uint64, from, to string) (*model.ContentRecord, error)
	UpdateTerms(ctx context.Context, id uint64, terms ContentTerms) (*model.ContentRecord, error)
	AttachPrediction(ctx context.Context, id uint64, forecast *model.TrendForecast, at time.Time) error
	ListMissingPrediction(ctx context.Context, limit int) ([]*model.ContentRecord, error)
}

type ContentRepoImpl struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) ContentRepo {
	return &ContentRepoImpl{db: db}
}

func (s *ContentRepoImpl) Insert(ctx context.Context, rec *model.ContentRecord) error {
	rec.ID = 0
	if rec.Status == "" {
		rec.Status = model.ContentStatusPending
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *ContentRepoImpl) GetByID(ctx context.Context, id uint64) (*model.ContentRecord, error) {
	var rec model.ContentRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *ContentRepoImpl) List(ctx context.Context, filter ContentFilter) ([]*model.ContentRecord, error) {
	filter.Normalize()

	query := s.db.WithContext(ctx).Model(&model.ContentRecord{})
	if !filter.IncludeUnapproved {
		query = query.Where("status = ?", model.ContentStatusApproved)
	}
	if filter.CreatorID != "" {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.SubscriptionEnabled != nil {
		query = query.Where("subscription_enabled = ?", *filter.SubscriptionEnabled)
	}

	var records []*model.ContentRecord
	err := query.Order(orderClause(filter.Sort)).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ContentRepoImpl) Trending(ctx context.Context, limit int) ([]*model.ContentRecord, error) {
	return s.List(ctx, ContentFilter{Sort: SortMostMinted, Limit: limit})
}

func (s *ContentRepoImpl) IncrementMintCount(ctx context.Context, id uint64) (*model.ContentRecord, error) {
	var rec model.ContentRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return incrementMint(tx, id, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecordMint 记录铸造交易并计数，同一 txHash 只生效一次
func (s *ContentRepoImpl) RecordMint(ctx context.Context, id uint64, txHash string) (*model.ContentRecord, error) {
	var rec model.ContentRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.MintEvent{ContentID: id, TxHash: txHash}).Error; err != nil {
			if IsDuplicateKey(err) {
				return ErrDuplicateKey
			}
			return err
		}
		return incrementMint(tx, id, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func incrementMint(tx *gorm.DB, id uint64, rec *model.ContentRecord) error {
	res := tx.Model(&model.ContentRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"mint_count": gorm.Expr("mint_count + ?", 1),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return tx.First(rec, id).Error
}

// UpdateStatus 仅当当前状态为 from 时更新为 to
func (s *ContentRepoImpl) UpdateStatus(ctx context.Context, id uint64, from, to string) (*model.ContentRecord, error) {
	res := s.db.WithContext(ctx).Model(&model.ContentRecord{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusConflict
	}
	return s.GetByID(ctx, id)
}

func (s *ContentRepoImpl) UpdateTerms(ctx context.Context, id uint64, terms ContentTerms) (*model.ContentRecord, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if terms.Price != nil {
		rec.Price = *terms.Price
	}
	if terms.Tags != nil {
		rec.Tags = terms.Tags
	}
	err = s.db.WithContext(ctx).Model(rec).
		Select("price", "tags", "updated_at").
		Updates(rec).Error
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *ContentRepoImpl) AttachPrediction(ctx context.Context, id uint64, forecast *model.TrendForecast, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.ContentRecord{ID: id}).
		Select("prediction", "updated_at").
		Updates(&model.ContentRecord{Prediction: forecast, UpdatedAt: at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ContentRepoImpl) ListMissingPrediction(ctx context.Context, limit int) ([]*model.ContentRecord, error) {
	var records []*model.ContentRecord
	err := s.db.WithContext(ctx).
		Where("prediction IS NULL OR prediction = ? OR prediction = ?", "", "null").
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// orderClause 各排序键对应的 ORDER BY，并列时按插入顺序倒序
func orderClause(sort string) string {
	switch sort {
	case SortOldest:
		return "created_at ASC, id DESC"
	case SortPriceAsc:
		return "price ASC, id DESC"
	case SortPriceDesc:
		return "price DESC, id DESC"
	case SortMostMinted:
		return "mint_count DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}
