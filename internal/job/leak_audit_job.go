package job

import (
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/logger"
	"Streamline/internal/pkg/mongo"
	"Streamline/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const auditPageSize = 500

// LeakAuditJob 巡检公开分区，私有活动一经发现立即清除并留档
// 这是可见性翻转后置校验之外的最后一道防线
type LeakAuditJob struct {
	partitions   *cache.PartitionStore
	securityRepo repository.SecurityRepo
	failureRepo  mongo.FanoutFailureRepo
}

func NewLeakAuditJob(
	partitions *cache.PartitionStore,
	securityRepo repository.SecurityRepo,
	failureRepo mongo.FanoutFailureRepo,
) *LeakAuditJob {
	return &LeakAuditJob{
		partitions:   partitions,
		securityRepo: securityRepo,
		failureRepo:  failureRepo,
	}
}

func (s *LeakAuditJob) Run() {
	traceID := "job-audit-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	log.InfoContext(ctx, "start leak audit job")

	keys, err := s.publicKeys(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list public partitions error", "err", err)
		return
	}

	totalPurged := 0
	for _, key := range keys {
		purged, err := s.auditPartition(ctx, key)
		if err != nil {
			log.ErrorContext(ctx, "audit partition error", "key", key, "err", err)
			continue
		}
		totalPurged += purged
	}

	log.InfoContext(ctx, "leak audit job finished", "partitions", len(keys), "purged", totalPurged)
}

// publicKeys everyone 分区与全部组织分区
func (s *LeakAuditJob) publicKeys(ctx context.Context) ([]string, error) {
	keys := []string{consts.FeedEveryoneKey}

	var cursor uint64
	for {
		batch, next, err := s.partitions.Client().Scan(ctx, cursor, consts.FeedOrgKey+"*", 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

func (s *LeakAuditJob) auditPartition(ctx context.Context, key string) (int, error) {
	purged := 0
	var offset int64
	for {
		ids, err := s.partitions.Range(ctx, key, offset, auditPageSize)
		if err != nil {
			return purged, err
		}
		if len(ids) == 0 {
			return purged, nil
		}

		descriptors, err := s.securityRepo.GetByActivityIDs(ctx, ids)
		if err != nil {
			return purged, err
		}

		for _, desc := range descriptors {
			if desc.IsPublic {
				continue
			}
			if err = s.partitions.Remove(ctx, key, desc.ActivityID); err != nil {
				return purged, err
			}
			purged++

			finding := &mongo.LeakFindingModel{
				ActivityID:   desc.ActivityID,
				PartitionKey: key,
				StreamID:     desc.StreamID,
				Purged:       true,
				CreatedAt:    time.Now(),
			}
			if err = s.failureRepo.CreateLeakFinding(ctx, finding); err != nil {
				log.ErrorContext(ctx, "record leak finding error", "activityID", desc.ActivityID, "err", err)
			}
			log.WarnContext(ctx, "private activity purged from public partition",
				"activityID", desc.ActivityID, "key", key)
		}

		if len(ids) < auditPageSize {
			return purged, nil
		}
		offset += auditPageSize
	}
}
