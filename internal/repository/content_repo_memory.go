package repository

import (
	"Mintora/internal/model"
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryContentRepo 进程内实现，用于 database.driver=memory 与测试
type MemoryContentRepo struct {
	mu      sync.RWMutex
	nextID  uint64
	records map[uint64]*model.ContentRecord
	mints   map[string]uint64
}

func NewMemoryContentRepo() *MemoryContentRepo {
	return &MemoryContentRepo{
		records: make(map[uint64]*model.ContentRecord),
		mints:   make(map[string]uint64),
	}
}

func (s *MemoryContentRepo) Insert(_ context.Context, rec *model.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now()
	rec.ID = s.nextID
	if rec.Status == "" {
		rec.Status = model.ContentStatusPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryContentRepo) GetByID(_ context.Context, id uint64) (*model.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryContentRepo) List(_ context.Context, filter ContentFilter) ([]*model.ContentRecord, error) {
	filter.Normalize()

	s.mu.RLock()
	matched := make([]*model.ContentRecord, 0)
	for _, rec := range s.records {
		if matchFilter(rec, &filter) {
			matched = append(matched, rec.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return lessBySort(matched[i], matched[j], filter.Sort)
	})

	if filter.Offset >= len(matched) {
		return []*model.ContentRecord{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (s *MemoryContentRepo) Trending(ctx context.Context, limit int) ([]*model.ContentRecord, error) {
	return s.List(ctx, ContentFilter{Sort: SortMostMinted, Limit: limit})
}

func (s *MemoryContentRepo) IncrementMintCount(_ context.Context, id uint64) (*model.ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.incrementLocked(id)
}

func (s *MemoryContentRepo) RecordMint(_ context.Context, id uint64, txHash string) (*model.ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil, ErrNotFound
	}
	if _, dup := s.mints[txHash]; dup {
		return nil, ErrDuplicateKey
	}
	s.mints[txHash] = id
	return s.incrementLocked(id)
}

func (s *MemoryContentRepo) incrementLocked(id uint64) (*model.ContentRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec.MintCount++
	rec.UpdatedAt = time.Now()
	return rec.Clone(), nil
}

func (s *MemoryContentRepo) UpdateStatus(_ context.Context, id uint64, from, to string) (*model.ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if rec.Status != from {
		return nil, ErrStatusConflict
	}
	rec.Status = to
	rec.UpdatedAt = time.Now()
	return rec.Clone(), nil
}

func (s *MemoryContentRepo) UpdateTerms(_ context.Context, id uint64, terms ContentTerms) (*model.ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if terms.Price != nil {
		rec.Price = *terms.Price
	}
	if terms.Tags != nil {
		rec.Tags = append([]string(nil), terms.Tags...)
	}
	rec.UpdatedAt = time.Now()
	return rec.Clone(), nil
}

func (s *MemoryContentRepo) AttachPrediction(_ context.Context, id uint64, forecast *model.TrendForecast, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.Prediction = forecast.Clone()
	rec.UpdatedAt = at
	return nil
}

func (s *MemoryContentRepo) ListMissingPrediction(_ context.Context, limit int) ([]*model.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint64, 0)
	for id, rec := range s.records {
		if rec.Prediction == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	records := make([]*model.ContentRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.records[id].Clone())
	}
	return records, nil
}

func matchFilter(rec *model.ContentRecord, f *ContentFilter) bool {
	if !f.IncludeUnapproved && rec.Status != model.ContentStatusApproved {
		return false
	}
	if f.CreatorID != "" && rec.CreatorID != f.CreatorID {
		return false
	}
	if f.ContentType != "" && rec.ContentType != f.ContentType {
		return false
	}
	if f.MinPrice != nil && rec.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && rec.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.SubscriptionEnabled != nil && rec.SubscriptionEnabled != *f.SubscriptionEnabled {
		return false
	}
	return true
}

// lessBySort 与 orderClause 保持一致的比较规则
func lessBySort(a, b *model.ContentRecord, sortKey string) bool {
	switch sortKey {
	case SortOldest:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case SortPriceAsc:
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c < 0
		}
	case SortPriceDesc:
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c > 0
		}
	case SortMostMinted:
		if a.MintCount != b.MintCount {
			return a.MintCount > b.MintCount
		}
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	return a.ID > b.ID
}
