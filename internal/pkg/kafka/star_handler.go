package kafka

import (
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// StarsHandler 消费 stars 表的 Canal 变更，逻辑与点赞对称
type StarsHandler struct {
	activityRepo repository.ActivityRepo
	partitions   *cache.PartitionStore
}

func NewStarsHandler(activityRepo repository.ActivityRepo, partitions *cache.PartitionStore) *StarsHandler {
	return &StarsHandler{
		activityRepo: activityRepo,
		partitions:   partitions,
	}
}

func (s *StarsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("star consumer setup")
	return nil
}

func (s *StarsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("star consumer cleanup")
	return nil
}

func (s *StarsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-star consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-star process batch error", "err", err)
		return err
	}
	return nil
}

func (s *StarsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "stars")
	if err != nil {
		return err
	}

	switch canalMsg.Type {
	case consts.INSERT:
		return s.handleInsert(ctx, canalMsg)
	case consts.DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

func (s *StarsHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	personID, activityID := rowUint64(row["person_id"]), rowUint64(row["activity_id"])

	ExecAction(ctx, ActionParams{
		TargetID:       activityID,
		CountKeyPrefix: consts.ActivityStarCountKey,
		DirtyKey:       consts.ActivityDirtyKey,
		IsIncrement:    true,
	})

	activity, err := s.activityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity != nil {
		key := consts.FeedStarredKey + util.Uint64ToStr(personID)
		if err = s.partitions.Add(ctx, key, activityID, activity.PostedAt); err != nil {
			return err
		}
	}

	log.InfoContext(ctx, "star inserted", "personID", personID, "activityID", activityID)
	return nil
}

func (s *StarsHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	personID, activityID := rowUint64(row["person_id"]), rowUint64(row["activity_id"])

	ExecAction(ctx, ActionParams{
		TargetID:       activityID,
		CountKeyPrefix: consts.ActivityStarCountKey,
		DirtyKey:       consts.ActivityDirtyKey,
		IsIncrement:    false,
	})

	key := consts.FeedStarredKey + util.Uint64ToStr(personID)
	if err := s.partitions.Remove(ctx, key, activityID); err != nil {
		return err
	}

	log.InfoContext(ctx, "star removed", "personID", personID, "activityID", activityID)
	return nil
}
