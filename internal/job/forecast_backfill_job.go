package job

import (
	"Mintora/internal/pkg/consts"
	"Mintora/internal/pkg/logger"
	"Mintora/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	backfillBatchSize  = 50
	backfillJobTimeout = 5 * time.Minute
	backfillLockTTL    = 6 * time.Minute
)

// ForecastBackfillJob 为发布时预测失败的内容补齐预测
type ForecastBackfillJob struct {
	contentSvc service.ContentService
	locker     service.Locker
}

// NewForecastBackfillJob locker 为 nil 时不做多实例互斥
func NewForecastBackfillJob(contentSvc service.ContentService, locker service.Locker) *ForecastBackfillJob {
	return &ForecastBackfillJob{
		contentSvc: contentSvc,
		locker:     locker,
	}
}

func (s *ForecastBackfillJob) Run() {
	traceID := "job-backfill-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	ctx, cancel := context.WithTimeout(ctx, backfillJobTimeout)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, consts.ForecastBackfillLock, traceID, backfillLockTTL, 0)
		if err != nil {
			log.ErrorContext(ctx, "acquire backfill lock error", "err", err)
			return
		}
		if !ok {
			log.InfoContext(ctx, "backfill running on another instance")
			return
		}
		defer s.locker.UnLock(context.WithoutCancel(ctx), consts.ForecastBackfillLock, traceID)
	}

	n, err := s.contentSvc.BackfillPredictions(ctx, backfillBatchSize)
	if err != nil {
		log.ErrorContext(ctx, "backfill predictions error", "err", err)
		return
	}
	if n > 0 {
		log.InfoContext(ctx, "backfill predictions done", "count", n)
	}
}
