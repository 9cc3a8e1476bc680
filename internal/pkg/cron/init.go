package cron

import log "log/slog"

// InitCron 注册并启动所有定时任务
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	for _, e := range mgr.engine.Entries() {
		log.Info("cron job scheduled", "entry", e.ID, "next", e.Next)
	}
	return nil
}
