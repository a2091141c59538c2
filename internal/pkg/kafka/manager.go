package kafka

import (
	"Streamline/internal/api/config"
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/es"
	"Streamline/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	likeConsumer sarama.ConsumerGroup
	likeHandler  sarama.ConsumerGroupHandler

	starConsumer sarama.ConsumerGroup
	starHandler  sarama.ConsumerGroupHandler

	followerConsumer sarama.ConsumerGroup
	followerHandler  sarama.ConsumerGroupHandler

	activityConsumer sarama.ConsumerGroup
	activityHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	partitions *cache.PartitionStore,
	activityRepo repository.ActivityRepo,
	securityRepo repository.SecurityRepo,
	hashtagRepo repository.HashTagRepo,
	esRepo es.ActivityRepo,
	cleanup PartitionCleanupFunc,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	likeConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaLikeConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	likeHandler := NewLikesHandler(activityRepo, partitions)

	starConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaStarConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	starHandler := NewStarsHandler(activityRepo, partitions)

	followerConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaFollowerConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	followerHandler := NewFollowersHandler()

	activityConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaActivityConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	activityHandler := NewActivitiesHandler(activityRepo, securityRepo, hashtagRepo, esRepo, cleanup)

	return &ConsumerManager{
		likeConsumer:     likeConsumer,
		likeHandler:      likeHandler,
		starConsumer:     starConsumer,
		starHandler:      starHandler,
		followerConsumer: followerConsumer,
		followerHandler:  followerHandler,
		activityConsumer: activityConsumer,
		activityHandler:  activityHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Like Consumer
	go func() {
		topic := cfg.KafkaLikeConsumer.Topic
		log.Info("Like consumer started", "topic", topic)
		for {
			if err := m.likeConsumer.Consume(ctx, []string{topic}, m.likeHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Star Consumer
	go func() {
		topic := cfg.KafkaStarConsumer.Topic
		log.Info("Star consumer started", "topic", topic)
		for {
			if err := m.starConsumer.Consume(ctx, []string{topic}, m.starHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Follower Consumer
	go func() {
		topic := cfg.KafkaFollowerConsumer.Topic
		log.Info("Follower consumer started", "topic", topic)
		for {
			if err := m.followerConsumer.Consume(ctx, []string{topic}, m.followerHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Activity Consumer
	go func() {
		topic := cfg.KafkaActivityConsumer.Topic
		log.Info("Activity consumer started", "topic", topic)
		for {
			if err := m.activityConsumer.Consume(ctx, []string{topic}, m.activityHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.likeConsumer.Close(); err != nil {
		log.Error("Failed to close like consumer", "err", err)
	}
	if err := m.starConsumer.Close(); err != nil {
		log.Error("Failed to close star consumer", "err", err)
	}
	if err := m.followerConsumer.Close(); err != nil {
		log.Error("Failed to close follower consumer", "err", err)
	}
	if err := m.activityConsumer.Close(); err != nil {
		log.Error("Failed to close activity consumer", "err", err)
	}

	return nil
}
