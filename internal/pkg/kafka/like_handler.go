package kafka

import (
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// LikesHandler 消费 likes 表的 Canal 变更
// 点赞计数与点赞人分区都在这里兜底，覆盖绕过本服务的写入
type LikesHandler struct {
	activityRepo repository.ActivityRepo
	partitions   *cache.PartitionStore
}

func NewLikesHandler(activityRepo repository.ActivityRepo, partitions *cache.PartitionStore) *LikesHandler {
	return &LikesHandler{
		activityRepo: activityRepo,
		partitions:   partitions,
	}
}

func (s *LikesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("like consumer setup")
	return nil
}

func (s *LikesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("like consumer cleanup")
	return nil
}

func (s *LikesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-like consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-like process batch error", "err", err)
		return err
	}
	return nil
}

func (s *LikesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "likes")
	if err != nil {
		return err
	}

	// 点赞是物理增删，只关心 INSERT/DELETE
	switch canalMsg.Type {
	case consts.INSERT:
		return s.handleInsert(ctx, canalMsg)
	case consts.DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

// handleInsert 新增点赞：INCR + DIRTY，并同步点赞人分区
func (s *LikesHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	personID, activityID := rowUint64(row["person_id"]), rowUint64(row["activity_id"])

	ExecAction(ctx, ActionParams{
		TargetID:       activityID,
		CountKeyPrefix: consts.ActivityLikeCountKey,
		DirtyKey:       consts.ActivityDirtyKey,
		IsIncrement:    true,
	})

	activity, err := s.activityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity != nil {
		key := consts.FeedLikedKey + util.Uint64ToStr(personID)
		if err = s.partitions.Add(ctx, key, activityID, activity.PostedAt); err != nil {
			return err
		}
	}

	// 点赞人集合只增量维护已缓存的，未缓存留给读路径回源
	likersKey := consts.ActivityLikersKey + util.Uint64ToStr(activityID)
	if exists, err := redis.Exists(ctx, likersKey); err == nil && exists {
		_ = redis.SAdd(ctx, likersKey, util.Uint64ToStr(personID))
	}

	log.InfoContext(ctx, "like inserted", "personID", personID, "activityID", activityID)
	return nil
}

// handleDelete 取消点赞：DECR + DIRTY，并回收分区成员
func (s *LikesHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	personID, activityID := rowUint64(row["person_id"]), rowUint64(row["activity_id"])

	ExecAction(ctx, ActionParams{
		TargetID:       activityID,
		CountKeyPrefix: consts.ActivityLikeCountKey,
		DirtyKey:       consts.ActivityDirtyKey,
		IsIncrement:    false,
	})

	key := consts.FeedLikedKey + util.Uint64ToStr(personID)
	if err := s.partitions.Remove(ctx, key, activityID); err != nil {
		return err
	}
	_ = redis.SRem(ctx, consts.ActivityLikersKey+util.Uint64ToStr(activityID), util.Uint64ToStr(personID))

	log.InfoContext(ctx, "like removed", "personID", personID, "activityID", activityID)
	return nil
}
