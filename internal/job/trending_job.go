package job

import (
	"Mintora/internal/pkg/logger"
	"Mintora/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const trendingJobTimeout = 30 * time.Second

// TrendingJob 定时重建热门榜单缓存
type TrendingJob struct {
	contentSvc service.ContentService
}

func NewTrendingJob(contentSvc service.ContentService) *TrendingJob {
	return &TrendingJob{
		contentSvc: contentSvc,
	}
}

func (s *TrendingJob) Run() {
	traceID := "job-trending-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	ctx, cancel := context.WithTimeout(ctx, trendingJobTimeout)
	defer cancel()

	if err := s.contentSvc.RefreshTrending(ctx); err != nil {
		log.ErrorContext(ctx, "refresh trending cache error", "err", err)
	}
}
