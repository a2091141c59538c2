package job

import (
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/logger"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"Streamline/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// CountSyncJob 把脏集合里的活动计数从缓存刷回数据库
// 先 RENAME 到 processing 集合，刷库期间新产生的脏数据不会丢
type CountSyncJob struct {
	actionSvc    service.ActionService
	activityRepo repository.ActivityRepo
}

func NewCountSyncJob(actionSvc service.ActionService, activityRepo repository.ActivityRepo) *CountSyncJob {
	return &CountSyncJob{
		actionSvc:    actionSvc,
		activityRepo: activityRepo,
	}
}

func (s *CountSyncJob) Run() {
	traceID := "job-count-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.ActivityDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.ActivityDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get activity dirty set error", "err", err)
		return
	}

	activityIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert activity set to int slice error", "err", err)
		return
	}

	log.InfoContext(ctx, "start syncing activity counts", "count", len(activityIDs))

	successCount := 0
	for _, aid := range activityIDs {
		likes, err := s.actionSvc.GetLikeCount(ctx, aid)
		if err != nil {
			log.ErrorContext(ctx, "get like count error", "aid", aid, "err", err)
			continue
		}
		comments, err := s.actionSvc.GetCommentCount(ctx, aid)
		if err != nil {
			log.ErrorContext(ctx, "get comment count error", "aid", aid, "err", err)
			continue
		}

		if err = s.activityRepo.UpdateActivityCounts(ctx, aid, likes, comments); err != nil {
			log.ErrorContext(ctx, "sync activity counts to mysql error", "aid", aid, "err", err)
			continue
		}
		successCount++
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete activity processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync activity counts success",
		"total_count", len(activityIDs),
		"success_count", successCount)
}
