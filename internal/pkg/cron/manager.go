package cron

import (
	"Streamline/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	countSyncJob  *job.CountSyncJob
	trendSweepJob *job.TrendSweepJob
	leakAuditJob  *job.LeakAuditJob
}

func NewCronManager(
	countSyncJob *job.CountSyncJob,
	trendSweepJob *job.TrendSweepJob,
	leakAuditJob *job.LeakAuditJob,
) *Manager {
	return &Manager{
		engine:        cron.New(cron.WithSeconds()),
		countSyncJob:  countSyncJob,
		trendSweepJob: trendSweepJob,
		leakAuditJob:  leakAuditJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("0 */5 * * * *", s.countSyncJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@hourly", s.trendSweepJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.leakAuditJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
