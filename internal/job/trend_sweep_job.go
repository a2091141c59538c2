package job

import (
	"Streamline/internal/pkg/logger"
	"Streamline/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// TrendSweepJob 清理超出最大窗口的话题贡献，控制 ZSET 体积
type TrendSweepJob struct {
	trending service.TrendingAggregator
}

func NewTrendSweepJob(trending service.TrendingAggregator) *TrendSweepJob {
	return &TrendSweepJob{trending: trending}
}

func (s *TrendSweepJob) Run() {
	traceID := "job-trend-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	log.InfoContext(ctx, "start trend sweep job")
	if err := s.trending.SweepExpired(ctx); err != nil {
		log.ErrorContext(ctx, "trend sweep error", "err", err)
		return
	}
	log.InfoContext(ctx, "trend sweep job finished")
}
