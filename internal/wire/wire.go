package wire

import (
	"Streamline/internal/api"
	"Streamline/internal/api/config"
	"Streamline/internal/api/handler"
	"Streamline/internal/job"
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/cron"
	"Streamline/internal/pkg/es"
	"Streamline/internal/pkg/kafka"
	mongopkg "Streamline/internal/pkg/mongo"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/repository"
	"Streamline/internal/service"
	"context"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	activityRepo := repository.NewActivityRepo(db)
	streamRepo := repository.NewStreamRepo(db)
	entityRepo := repository.NewEntityRepo(db)
	orgRepo := repository.NewOrgRepo(db)
	followerRepo := repository.NewFollowerRepo(db)
	securityRepo := repository.NewSecurityRepo(db)
	hashtagRepo := repository.NewHashTagRepo(db)
	actionRepo := repository.NewActionRepo(db)

	failureRepo := mongopkg.NewFanoutFailureRepo(mongoDB)
	esRepo := es.NewActivityRepo(es.Client)
	partitions := cache.NewPartitionStore(redis.Rdb)

	securityFilter := service.NewSecurityFilter(streamRepo, entityRepo)
	fanoutResolver := service.NewFanoutResolver(streamRepo, entityRepo, orgRepo, followerRepo)
	trending := service.NewTrendingAggregator(redis.Rdb)
	coordinator := service.NewCacheCoordinator(
		securityFilter,
		fanoutResolver,
		trending,
		partitions,
		activityRepo,
		securityRepo,
		streamRepo,
		hashtagRepo,
		actionRepo,
		orgRepo,
		entityRepo,
		failureRepo,
		esRepo,
	)
	entityResolver := service.NewEntityResolver(streamRepo, entityRepo)

	activityService := service.NewActivityService(activityRepo, streamRepo, hashtagRepo, coordinator)
	actionService := service.NewActionService(actionRepo, activityRepo, partitions)
	followService := service.NewFollowService(followerRepo)
	opsService := service.NewOpsService(failureRepo)
	feedService := service.NewFeedService(
		partitions,
		activityRepo,
		streamRepo,
		entityRepo,
		followerRepo,
		hashtagRepo,
		actionService,
		trending,
		esRepo,
	)

	handlers := &api.HandlersGroup{
		ActivityHandler: handler.NewActivityHandler(activityService),
		FeedHandler:     handler.NewFeedHandler(feedService),
		ActionHandler:   handler.NewActionHandler(actionService),
		FollowHandler:   handler.NewFollowHandler(followService),
		StreamHandler:   handler.NewStreamHandler(activityService, entityResolver),
		OpsHandler:      handler.NewOpsHandler(opsService),
	}

	router := api.SetupRouter(handlers)

	// CDC 兜底清理复用协调器的删除回收路径
	cleanup := func(ctx context.Context, activityIDs []uint64) error {
		return coordinator.ApplyDelete(ctx, activityIDs)
	}
	kafkaMgr, err := kafka.NewConsumerManager(cfg, partitions, activityRepo, securityRepo, hashtagRepo, esRepo, cleanup)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewCountSyncJob(actionService, activityRepo),
		job.NewTrendSweepJob(trending),
		job.NewLeakAuditJob(partitions, securityRepo, failureRepo),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
