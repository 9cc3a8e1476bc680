package cron

import (
	"Mintora/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const (
	TrendingSpec = "0 * * * * *"
	BackfillSpec = "30 */10 * * * *"
)

type Manager struct {
	engine      *cron.Cron
	trendingJob *job.TrendingJob
	backfillJob *job.ForecastBackfillJob
}

func NewCronManager(trendingJob *job.TrendingJob, backfillJob *job.ForecastBackfillJob) *Manager {
	return &Manager{
		engine:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		trendingJob: trendingJob,
		backfillJob: backfillJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(TrendingSpec, s.trendingJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(BackfillSpec, s.backfillJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "jobs", len(s.engine.Entries()))
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
