package kafka

import (
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// FollowersHandler 消费 followers 表的 Canal 变更
// 关注关系一变，粉丝集合与计数缓存立即失效，下次读自然重建，
// 后续扇出解析用到的粉丝查询也就拿到新图
type FollowersHandler struct {
}

func NewFollowersHandler() *FollowersHandler {
	return &FollowersHandler{}
}

func (s *FollowersHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("follower consumer setup")
	return nil
}

func (s *FollowersHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("follower consumer cleanup")
	return nil
}

func (s *FollowersHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-follower consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-follower process batch error", "err", err)
		return err
	}
	return nil
}

func (s *FollowersHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "followers")
	if err != nil {
		return err
	}

	if canalMsg.Type != consts.INSERT && canalMsg.Type != consts.DELETE {
		return nil
	}

	for _, row := range canalMsg.Data {
		entityID := rowUint64(row["followed_entity_id"])
		if entityID == 0 {
			continue
		}
		if err = redis.DeleteKey(ctx, consts.EntityFollowerKey+util.Uint64ToStr(entityID)); err != nil {
			return err
		}
		if err = redis.DeleteKey(ctx, consts.EntityFollowerCountKey+util.Uint64ToStr(entityID)); err != nil {
			return err
		}
	}

	log.InfoContext(ctx, "follower cache invalidated", "type", canalMsg.Type, "rows", len(canalMsg.Data))
	return nil
}
