package service

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/consts"
	"Mintora/internal/pkg/es"
	"Mintora/internal/pkg/mongo"
	"Mintora/internal/pkg/util"
	"Mintora/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const (
	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 50
	maxStatusRetries     = 3
)

const (
	AuditSourcePublish  = "publish"
	AuditSourceManual   = "manual"
	AuditSourceBackfill = "backfill"
)

type ContentService interface {
	Get(ctx context.Context, viewerID string, id uint64) (*model.ContentRecord, error)
	List(ctx context.Context, viewerID string, filter repository.ContentFilter) ([]*model.ContentRecord, error)
	Trending(ctx context.Context, limit int) ([]*model.ContentRecord, error)
	RefreshTrending(ctx context.Context) error
	Search(ctx context.Context, keyword string, limit, offset int) ([]*model.ContentRecord, int64, error)
	IncrementMintCount(ctx context.Context, id uint64) (*model.ContentRecord, error)
	RecordMint(ctx context.Context, id uint64, txHash string) (*model.ContentRecord, error)
	UpdateStatus(ctx context.Context, id uint64, status string) (*model.ContentRecord, error)
	UpdateTerms(ctx context.Context, creatorID string, id uint64, terms repository.ContentTerms) (*model.ContentRecord, error)
	Predict(ctx context.Context, creatorID string, id uint64) (*model.TrendForecast, error)
	BackfillPredictions(ctx context.Context, limit int) (int, error)
}

type contentServiceImpl struct {
	repo       repository.ContentRepo
	forecaster Forecaster
	cache      Cache
	search     es.ContentRepo
	audit      mongo.ForecastAuditRepo
}

// NewContentService cache/search/audit 可为 nil，对应能力降级
func NewContentService(
	repo repository.ContentRepo,
	forecaster Forecaster,
	cache Cache,
	search es.ContentRepo,
	audit mongo.ForecastAuditRepo,
) ContentService {
	return &contentServiceImpl{
		repo:       repo,
		forecaster: forecaster,
		cache:      cache,
		search:     search,
		audit:      audit,
	}
}

// Get 获取单条内容，未审核通过的内容仅创作者本人可见
func (s *contentServiceImpl) Get(ctx context.Context, viewerID string, id uint64) (*model.ContentRecord, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != model.ContentStatusApproved && !rec.IsOwnedBy(viewerID) {
		return nil, ErrNotFound
	}
	return rec, nil
}

// List 列表查询，创作者查询自己的内容时包含未审核记录
func (s *contentServiceImpl) List(ctx context.Context, viewerID string, filter repository.ContentFilter) ([]*model.ContentRecord, error) {
	filter.IncludeUnapproved = viewerID != "" && filter.CreatorID == viewerID
	filter.Normalize()

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		log.ErrorContext(ctx, "list content error", "err", err)
		return nil, UnExpectedError
	}
	return records, nil
}

// Trending 按铸造数排序的已审核内容，优先读缓存
func (s *contentServiceImpl) Trending(ctx context.Context, limit int) ([]*model.ContentRecord, error) {
	limit = normalizeTrendingLimit(limit)
	key := trendingKey(limit)

	if s.cache != nil {
		if cached, err := s.cache.GetValue(ctx, key); err == nil && cached != "" {
			var records []*model.ContentRecord
			if err = json.Unmarshal([]byte(cached), &records); err == nil {
				return records, nil
			}
			log.WarnContext(ctx, "trending cache corrupted", "key", key, "err", err)
		}
	}

	records, err := s.repo.Trending(ctx, limit)
	if err != nil {
		log.ErrorContext(ctx, "query trending content error", "err", err)
		return nil, UnExpectedError
	}
	s.writeTrendingCache(ctx, key, records)
	return records, nil
}

// RefreshTrending 重建默认榜单缓存
func (s *contentServiceImpl) RefreshTrending(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	records, err := s.repo.Trending(ctx, DefaultTrendingLimit)
	if err != nil {
		return err
	}
	s.writeTrendingCache(ctx, trendingKey(DefaultTrendingLimit), records)
	return nil
}

func (s *contentServiceImpl) writeTrendingCache(ctx context.Context, key string, records []*model.ContentRecord) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err = s.cache.SetWithExpiration(ctx, key, string(data), consts.TrendingCacheTTL); err != nil {
		log.WarnContext(ctx, "write trending cache error", "key", key, "err", err)
	}
}

func (s *contentServiceImpl) invalidateTrending(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteKey(ctx, trendingKey(DefaultTrendingLimit)); err != nil {
		log.WarnContext(ctx, "invalidate trending cache error", "err", err)
	}
}

// Search 全文检索，索引可能滞后，回表时再次过滤
func (s *contentServiceImpl) Search(ctx context.Context, keyword string, limit, offset int) ([]*model.ContentRecord, int64, error) {
	if s.search == nil {
		return nil, 0, ErrSearchUnavailable
	}
	filter := repository.ContentFilter{Limit: limit, Offset: offset}
	filter.Normalize()

	ids, total, err := s.search.Search(ctx, keyword, filter.Offset, filter.Limit)
	if err != nil {
		log.ErrorContext(ctx, "search content error", "keyword", keyword, "err", err)
		return nil, 0, stageError(ErrSearchUnavailable, err)
	}

	records := make([]*model.ContentRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if !repository.IsNotFound(err) {
				log.WarnContext(ctx, "load searched content error", "id", id, "err", err)
			}
			continue
		}
		if rec.Status != model.ContentStatusApproved {
			continue
		}
		records = append(records, rec)
	}
	return records, total, nil
}

// IncrementMintCount 铸造数 +1
func (s *contentServiceImpl) IncrementMintCount(ctx context.Context, id uint64) (*model.ContentRecord, error) {
	rec, err := s.repo.IncrementMintCount(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		log.ErrorContext(ctx, "increment mint count error", "id", id, "err", err)
		return nil, stageError(ErrPersistence, err)
	}
	return rec, nil
}

// RecordMint 按交易哈希去重的铸造计数
func (s *contentServiceImpl) RecordMint(ctx context.Context, id uint64, txHash string) (*model.ContentRecord, error) {
	if txHash == "" {
		return nil, NewValidationError("txHash", "不能为空")
	}
	rec, err := s.repo.RecordMint(ctx, id, txHash)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrDuplicateMint
		}
		log.ErrorContext(ctx, "record mint error", "id", id, "txHash", txHash, "err", err)
		return nil, stageError(ErrPersistence, err)
	}
	log.InfoContext(ctx, "mint recorded", "id", id, "txHash", txHash, "mintCount", rec.MintCount)
	return rec, nil
}

// UpdateStatus 审核状态流转，并发修改时基于最新状态重试
func (s *contentServiceImpl) UpdateStatus(ctx context.Context, id uint64, status string) (*model.ContentRecord, error) {
	if !model.IsValidStatus(status) {
		return nil, NewValidationError("status", "取值必须为 pending/approved/rejected")
	}

	for attempt := 0; attempt < maxStatusRetries; attempt++ {
		current, err := s.getRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == status {
			return current, nil
		}
		if err = model.ValidateStatusTransition(current.Status, status); err != nil {
			return nil, stageError(ErrInvalidTransition, err)
		}

		updated, err := s.repo.UpdateStatus(ctx, id, current.Status, status)
		if err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				continue
			}
			if repository.IsNotFound(err) {
				return nil, ErrNotFound
			}
			log.ErrorContext(ctx, "update content status error", "id", id, "err", err)
			return nil, stageError(ErrPersistence, err)
		}

		log.InfoContext(ctx, "content status updated", "id", id, "from", current.Status, "to", status)
		s.syncSearchIndex(ctx, updated)
		s.invalidateTrending(ctx)
		return updated, nil
	}
	return nil, stageError(ErrPersistence, repository.ErrStatusConflict)
}

// syncSearchIndex 已审核内容写入索引，其余状态从索引移除
func (s *contentServiceImpl) syncSearchIndex(ctx context.Context, rec *model.ContentRecord) {
	if s.search == nil {
		return
	}
	var err error
	if rec.Status == model.ContentStatusApproved {
		err = s.search.IndexContent(ctx, es.NewContentES(rec))
	} else {
		err = s.search.DeleteContent(ctx, rec.ID)
	}
	if err != nil {
		log.WarnContext(ctx, "sync content index error", "id", rec.ID, "err", err)
	}
}

// UpdateTerms 创作者修改价格与标签
func (s *contentServiceImpl) UpdateTerms(ctx context.Context, creatorID string, id uint64, terms repository.ContentTerms) (*model.ContentRecord, error) {
	if terms.Price != nil && terms.Price.IsNegative() {
		return nil, NewValidationError("price", "不能为负数")
	}
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsOwnedBy(creatorID) {
		return nil, ErrForbidden
	}
	if terms.Tags != nil {
		terms.Tags = util.NormalizeTags(terms.Tags)
	}

	updated, err := s.repo.UpdateTerms(ctx, id, terms)
	if err != nil {
		log.ErrorContext(ctx, "update content terms error", "id", id, "err", err)
		return nil, stageError(ErrPersistence, err)
	}
	if updated.Status == model.ContentStatusApproved {
		s.syncSearchIndex(ctx, updated)
	}
	return updated, nil
}

// Predict 创作者手动触发预测，结果同步返回
func (s *contentServiceImpl) Predict(ctx context.Context, creatorID string, id uint64) (*model.TrendForecast, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsOwnedBy(creatorID) {
		return nil, ErrForbidden
	}

	forecast, err := s.forecaster.Predict(ctx, rec)
	if err != nil {
		log.ErrorContext(ctx, "predict content error", "id", id, "err", err)
		return nil, UnExpectedError
	}
	s.attachForecast(ctx, rec, forecast, AuditSourceManual)
	return forecast, nil
}

// BackfillPredictions 为缺少预测的内容补齐，返回成功数量
func (s *contentServiceImpl) BackfillPredictions(ctx context.Context, limit int) (int, error) {
	records, err := s.repo.ListMissingPrediction(ctx, limit)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		forecast, err := s.forecaster.Predict(ctx, rec)
		if err != nil {
			log.WarnContext(ctx, "backfill predict error", "id", rec.ID, "err", err)
			continue
		}
		if s.attachForecast(ctx, rec, forecast, AuditSourceBackfill) {
			done++
		}
	}
	return done, nil
}

// attachForecast 保存预测并写审计日志，均为尽力而为
func (s *contentServiceImpl) attachForecast(ctx context.Context, rec *model.ContentRecord, forecast *model.TrendForecast, source string) bool {
	ok := true
	if err := s.repo.AttachPrediction(ctx, rec.ID, forecast, time.Now()); err != nil {
		log.WarnContext(ctx, "attach prediction error", "id", rec.ID, "err", err)
		ok = false
	}
	if s.audit != nil {
		if err := s.audit.Append(ctx, rec.ID, rec.CreatorID, source, forecast); err != nil {
			log.WarnContext(ctx, "append forecast audit error", "id", rec.ID, "err", err)
		}
	}
	return ok
}

func (s *contentServiceImpl) getRecord(ctx context.Context, id uint64) (*model.ContentRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		log.ErrorContext(ctx, "get content error", "id", id, "err", err)
		return nil, fmt.Errorf("%w: %w", UnExpectedError, err)
	}
	return rec, nil
}

func normalizeTrendingLimit(limit int) int {
	if limit <= 0 {
		return DefaultTrendingLimit
	}
	if limit > MaxTrendingLimit {
		return MaxTrendingLimit
	}
	return limit
}

func trendingKey(limit int) string {
	return consts.TrendingContentKey + strconv.Itoa(limit)
}

// withTimeout seconds<=0 时不设超时
func withTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}
