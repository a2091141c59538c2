package kafka

import (
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/es"
	"Streamline/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ActivitiesHandler 消费 activities 表的 Canal 变更
// 索引同步和删除兜底走这里：API 之外的写入方改了表，
// 缓存与索引也能跟上
type ActivitiesHandler struct {
	activityRepo repository.ActivityRepo
	securityRepo repository.SecurityRepo
	hashtagRepo  repository.HashTagRepo
	esRepo       es.ActivityRepo
	cleanup      PartitionCleanupFunc
}

// PartitionCleanupFunc 由装配层注入，指向协调器的删除回收
type PartitionCleanupFunc func(ctx context.Context, activityIDs []uint64) error

func NewActivitiesHandler(
	activityRepo repository.ActivityRepo,
	securityRepo repository.SecurityRepo,
	hashtagRepo repository.HashTagRepo,
	esRepo es.ActivityRepo,
	cleanup PartitionCleanupFunc,
) *ActivitiesHandler {
	return &ActivitiesHandler{
		activityRepo: activityRepo,
		securityRepo: securityRepo,
		hashtagRepo:  hashtagRepo,
		esRepo:       esRepo,
		cleanup:      cleanup,
	}
}

func (s *ActivitiesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer setup")
	return nil
}

func (s *ActivitiesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer cleanup")
	return nil
}

func (s *ActivitiesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-activity consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-activity process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ActivitiesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "activities")
	if err != nil {
		return err
	}

	switch canalMsg.Type {
	case consts.INSERT:
		return s.handleUpsert(ctx, canalMsg)
	case consts.UPDATE:
		if err = s.handleSoftDelete(ctx, canalMsg); err != nil {
			return err
		}
		return s.handleUpsert(ctx, canalMsg)
	case consts.DELETE:
		return s.handleHardDelete(ctx, canalMsg)
	default:
		return nil
	}
}

// handleUpsert 增量同步索引，外部版本号防旧消息覆盖新文档
func (s *ActivitiesHandler) handleUpsert(ctx context.Context, msg *CanalMessage) error {
	for _, row := range msg.Data {
		activityID := rowUint64(row["id"])
		if activityID == 0 {
			continue
		}

		activity, err := s.activityRepo.GetActivityByID(ctx, activityID)
		if err != nil {
			return err
		}
		if activity == nil {
			continue
		}

		descriptors, err := s.securityRepo.GetByActivityIDs(ctx, []uint64{activityID})
		if err != nil {
			return err
		}
		isPublic := false
		if len(descriptors) > 0 {
			isPublic = descriptors[0].IsPublic
		}

		tagsMap, err := s.hashtagRepo.GetTagsByActivityIDs(ctx, []uint64{activityID})
		if err != nil {
			return err
		}
		tags := tagsMap[activityID]
		if tags == nil {
			tags = make([]string, 0)
		}

		doc := &es.ActivityES{
			ID:            activity.ID,
			ActorType:     activity.ActorType,
			ActorID:       activity.ActorID,
			StreamID:      activity.StreamID,
			Verb:          activity.Verb,
			Content:       activity.Content,
			Tags:          tags,
			IsPublic:      isPublic,
			LikesCount:    activity.LikesCount,
			CommentsCount: activity.CommentsCount,
			PostedAt:      activity.PostedAt,
		}
		if err = s.esRepo.IndexActivity(ctx, doc, msg.ES*int64(time.Millisecond)); err != nil {
			return err
		}
	}
	return nil
}

// handleSoftDelete is_deleted 翻转到 1 时兜底回收分区成员
func (s *ActivitiesHandler) handleSoftDelete(ctx context.Context, msg *CanalMessage) error {
	var deletedIDs []uint64
	for i, row := range msg.Data {
		if rowUint64(row["is_deleted"]) != 1 {
			continue
		}
		if i < len(msg.Old) {
			if _, changed := msg.Old[i]["is_deleted"]; !changed {
				continue
			}
		}
		if id := rowUint64(row["id"]); id != 0 {
			deletedIDs = append(deletedIDs, id)
		}
	}
	if len(deletedIDs) == 0 || s.cleanup == nil {
		return nil
	}
	return s.cleanup(ctx, deletedIDs)
}

func (s *ActivitiesHandler) handleHardDelete(ctx context.Context, msg *CanalMessage) error {
	for _, row := range msg.Data {
		activityID := rowUint64(row["id"])
		if activityID == 0 {
			continue
		}
		if err := s.esRepo.DeleteActivity(ctx, activityID); err != nil {
			return err
		}
	}
	return nil
}
