package service

import (
	"Streamline/internal/api/config"
	"Streamline/internal/model"
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/mongo"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setTestConfig() {
	config.Cfg = &config.Config{
		Fanout: config.FanoutConfig{
			MaxRetries:   3,
			RetryBaseMs:  1,
			DeleteBatch:  100,
			VisFlipBatch: 200,
		},
		Trend: config.TrendConfig{
			DefaultWindowHours: 24,
			MaxWindowHours:     168,
		},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.Stream{},
		&model.Person{},
		&model.DomainGroup{},
		&model.GroupMember{},
		&model.Organization{},
		&model.Follower{},
		&model.Activity{},
		&model.ActivitySecurity{},
		&model.HashTag{},
		&model.ActivityHashTag{},
		&model.LikeRecord{},
		&model.StarRecord{},
		&model.Comment{},
	)
	require.NoError(t, err)
	return db
}

func newTestRedis(t *testing.T) *redisv9.Client {
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	return client
}

// stubFailureRepo 记录失败落盘调用，替代 Mongo
type stubFailureRepo struct {
	failures []*mongo.FanoutFailureModel
	findings []*mongo.LeakFindingModel
}

func (s *stubFailureRepo) CreateFailure(_ context.Context, failure *mongo.FanoutFailureModel) error {
	s.failures = append(s.failures, failure)
	return nil
}

func (s *stubFailureRepo) GetPendingList(_ context.Context, _, _ int64) ([]*mongo.FanoutFailureModel, error) {
	return s.failures, nil
}

func (s *stubFailureRepo) MarkResolved(_ context.Context, _ string) error { return nil }

func (s *stubFailureRepo) GetPendingCount(_ context.Context) (int64, error) {
	return int64(len(s.failures)), nil
}

func (s *stubFailureRepo) CreateLeakFinding(_ context.Context, finding *mongo.LeakFindingModel) error {
	s.findings = append(s.findings, finding)
	return nil
}

func (s *stubFailureRepo) GetLeakFindingList(_ context.Context, _, _ int64) ([]*mongo.LeakFindingModel, error) {
	return s.findings, nil
}

// fixture 一套完整的内存替身环境
type fixture struct {
	db  *gorm.DB
	rdb *redisv9.Client

	streamRepo   repository.StreamRepo
	entityRepo   repository.EntityRepo
	orgRepo      repository.OrgRepo
	followerRepo repository.FollowerRepo
	securityRepo repository.SecurityRepo
	hashtagRepo  repository.HashTagRepo
	actionRepo   repository.ActionRepo
	activityRepo repository.ActivityRepo
	failureRepo  *stubFailureRepo

	partitions  *cache.PartitionStore
	filter      SecurityFilter
	resolver    FanoutResolver
	trending    TrendingAggregator
	coordinator CacheConsistencyCoordinator
}

func newFixture(t *testing.T) *fixture {
	setTestConfig()
	db := newTestDB(t)
	rdb := newTestRedis(t)

	f := &fixture{
		db:           db,
		rdb:          rdb,
		streamRepo:   repository.NewStreamRepo(db),
		entityRepo:   repository.NewEntityRepo(db),
		orgRepo:      repository.NewOrgRepo(db),
		followerRepo: repository.NewFollowerRepo(db),
		securityRepo: repository.NewSecurityRepo(db),
		hashtagRepo:  repository.NewHashTagRepo(db),
		actionRepo:   repository.NewActionRepo(db),
		activityRepo: repository.NewActivityRepo(db),
		failureRepo:  &stubFailureRepo{},
		partitions:   cache.NewPartitionStore(rdb),
	}

	f.filter = NewSecurityFilter(f.streamRepo, f.entityRepo)
	f.resolver = NewFanoutResolver(f.streamRepo, f.entityRepo, f.orgRepo, f.followerRepo)
	f.trending = NewTrendingAggregator(rdb)
	f.coordinator = NewCacheCoordinator(
		f.filter,
		f.resolver,
		f.trending,
		f.partitions,
		f.activityRepo,
		f.securityRepo,
		f.streamRepo,
		f.hashtagRepo,
		f.actionRepo,
		f.orgRepo,
		f.entityRepo,
		f.failureRepo,
		nil,
	)
	return f
}

func (f *fixture) seedStream(t *testing.T, id uint64, entityType string, entityID uint64, isPublic bool) *model.Stream {
	stream := &model.Stream{ID: id, EntityType: entityType, EntityID: entityID, IsPublic: isPublic}
	require.NoError(t, f.db.Create(stream).Error)
	return stream
}

func (f *fixture) seedPerson(t *testing.T, id uint64, uniqueKey string, streamID uint64) *model.Person {
	person := &model.Person{ID: id, UniqueKey: uniqueKey, StreamID: streamID}
	require.NoError(t, f.db.Create(person).Error)
	return person
}

func (f *fixture) seedOrg(t *testing.T, id uint64, uniqueKey string, streamID, parentOrgID uint64) *model.Organization {
	org := &model.Organization{ID: id, UniqueKey: uniqueKey, StreamID: streamID, ParentOrgID: parentOrgID}
	require.NoError(t, f.db.Create(org).Error)
	return org
}

func (f *fixture) seedGroup(t *testing.T, id uint64, uniqueKey string, streamID, orgID uint64) *model.DomainGroup {
	group := &model.DomainGroup{ID: id, UniqueKey: uniqueKey, StreamID: streamID, OrgID: orgID}
	require.NoError(t, f.db.Create(group).Error)
	return group
}

func (f *fixture) seedActivity(t *testing.T, id, actorID, streamID uint64, postedAt time.Time) *model.Activity {
	activity := &model.Activity{
		ID:           id,
		ActorType:    "person",
		ActorID:      actorID,
		StreamID:     streamID,
		Verb:         "post",
		Content:      "content",
		ShowInStream: true,
		PostedAt:     postedAt,
	}
	require.NoError(t, f.db.Omit("Stream").Create(activity).Error)
	return activity
}

// 私有流和隐藏活动的 false 必须原样落库，
// gorm 对带 default 标签的 bool 会把零值当未赋值改写成默认值
func TestVisibilityZeroValuesPersist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "group", 7, false)
	stream, err := f.streamRepo.GetStreamByID(ctx, 10)
	require.NoError(t, err)
	require.False(t, stream.IsPublic)

	activity := &model.Activity{
		ID:           100,
		ActorType:    "person",
		ActorID:      1,
		StreamID:     10,
		Verb:         "post",
		Content:      "content",
		ShowInStream: false,
		PostedAt:     time.Now(),
	}
	require.NoError(t, f.db.Omit("Stream").Create(activity).Error)

	var got model.Activity
	require.NoError(t, f.db.First(&got, 100).Error)
	require.False(t, got.ShowInStream)

	require.NoError(t, f.db.Create(&model.ActivitySecurity{
		ActivityID: 100, StreamID: 10, DestEntityID: 7, IsPublic: false,
	}).Error)
	var desc model.ActivitySecurity
	require.NoError(t, f.db.First(&desc, 100).Error)
	require.False(t, desc.IsPublic)
}

func (f *fixture) seedFollower(t *testing.T, followerID, entityID uint64) {
	require.NoError(t, f.db.Create(&model.Follower{
		FollowerID:       followerID,
		FollowedEntityID: entityID,
		CreatedAt:        time.Now(),
	}).Error)
}
