package service

import (
	"Streamline/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func (f *fixture) seedTag(t *testing.T, tagID uint64, content string, activityID uint64) {
	require.NoError(t, f.db.Create(&model.HashTag{ID: tagID, Content: content}).Error)
	require.NoError(t, f.db.Create(&model.ActivityHashTag{ActivityID: activityID, TagID: tagID}).Error)
}

func TestApplyCreateFansOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)
	f.seedFollower(t, 2, 1)

	activity := f.seedActivity(t, 100, 1, 10, time.Now())

	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, []string{"#go"}))

	for _, key := range []string{"feed:everyone", "feed:person:1", "feed:following:1", "feed:following:2"} {
		ok, err := f.partitions.Contains(ctx, key, 100)
		require.NoError(t, err)
		require.True(t, ok, "expected %s to contain activity", key)
	}

	top, err := f.trending.TopHashtags(ctx, "person:1", 24, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"#go"}, top)
}

func TestApplyCreateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)

	postedAt := time.Now()
	activity := f.seedActivity(t, 100, 1, 10, postedAt)

	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))
	score, err := f.rdb.ZScore(ctx, "feed:everyone", "100").Result()
	require.NoError(t, err)

	// 重复提交不改写首次 score，也不产生重复成员
	activity.PostedAt = postedAt.Add(time.Hour)
	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))

	again, err := f.rdb.ZScore(ctx, "feed:everyone", "100").Result()
	require.NoError(t, err)
	require.Equal(t, score, again)

	size, err := f.rdb.ZCard(ctx, "feed:everyone").Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), size)
}

func TestApplyCreateSkipsDeletedDestEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 私有流，目的实体不存在：完全不扇出
	f.seedStream(t, 10, "person", 99, false)
	activity := f.seedActivity(t, 100, 99, 10, time.Now())

	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))

	size, err := f.rdb.ZCard(ctx, "feed:everyone").Result()
	require.NoError(t, err)
	require.Zero(t, size)
	size, err = f.rdb.ZCard(ctx, "feed:person:99").Result()
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestApplyCreatePrivateGroupStaysOutOfFollowerFeeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedOrg(t, 1, "root-org", 20, 0)
	f.seedStream(t, 30, "group", 7, false)
	f.seedGroup(t, 7, "team-a", 30, 1)
	f.seedStream(t, 40, "person", 1, true)
	f.seedPerson(t, 1, "alice", 40)
	f.seedFollower(t, 2, 1)

	activity := f.seedActivity(t, 100, 1, 30, time.Now())

	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))

	ok, err := f.partitions.Contains(ctx, "feed:group:7", 100)
	require.NoError(t, err)
	require.True(t, ok)

	// 非成员粉丝的关注流、作者个人流、公共流都不可见
	for _, key := range []string{"feed:following:2", "feed:following:1", "feed:person:1", "feed:everyone", "feed:org:1"} {
		ok, err := f.partitions.Contains(ctx, key, 100)
		require.NoError(t, err)
		require.False(t, ok, "expected %s to stay empty", key)
	}
}

func TestVisibilityFlipPurgesFollowerFeeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedOrg(t, 1, "root-org", 20, 0)
	f.seedStream(t, 30, "group", 7, true)
	f.seedGroup(t, 7, "team-a", 30, 1)
	f.seedStream(t, 40, "person", 1, true)
	f.seedPerson(t, 1, "alice", 40)
	f.seedFollower(t, 2, 1)

	activity := f.seedActivity(t, 100, 1, 30, time.Now())
	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))

	ok, err := f.partitions.Contains(ctx, "feed:following:2", 100)
	require.NoError(t, err)
	require.True(t, ok)

	// 公转私：作者粉丝流与公开分区一并清除，群组分区保留
	require.NoError(t, f.coordinator.ApplyVisibilityChange(ctx, 30, false))

	ok, err = f.partitions.Contains(ctx, "feed:group:7", 100)
	require.NoError(t, err)
	require.True(t, ok)

	for _, key := range []string{"feed:following:2", "feed:following:1", "feed:person:1", "feed:everyone", "feed:org:1"} {
		ok, err := f.partitions.Contains(ctx, key, 100)
		require.NoError(t, err)
		require.False(t, ok, "expected %s to be purged", key)
	}

	// 私转公：完整可达集合补回
	require.NoError(t, f.coordinator.ApplyVisibilityChange(ctx, 30, true))
	for _, key := range []string{"feed:following:2", "feed:org:1", "feed:everyone", "feed:group:7"} {
		ok, err := f.partitions.Contains(ctx, key, 100)
		require.NoError(t, err)
		require.True(t, ok, "expected %s to be restored", key)
	}
}

func TestApplyDeleteRecyclesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)

	activity := f.seedActivity(t, 100, 1, 10, time.Now())
	f.seedTag(t, 1, "#go", 100)

	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, []string{"#go"}))

	// 点赞者的个人分区
	require.NoError(t, f.db.Create(&model.LikeRecord{PersonID: 3, ActivityID: 100, CreatedAt: time.Now()}).Error)
	require.NoError(t, f.partitions.Add(ctx, "feed:liked:3", 100, activity.PostedAt))

	require.NoError(t, f.coordinator.ApplyDelete(ctx, []uint64{100}))

	for _, key := range []string{"feed:everyone", "feed:person:1", "feed:following:1", "feed:liked:3"} {
		ok, err := f.partitions.Contains(ctx, key, 100)
		require.NoError(t, err)
		require.False(t, ok, "expected %s to be recycled", key)
	}

	top, err := f.trending.TopHashtags(ctx, "person:1", 24, 10)
	require.NoError(t, err)
	require.Empty(t, top)

	got, err := f.activityRepo.GetActivityByID(ctx, 100)
	require.NoError(t, err)
	require.Nil(t, got)

	var likeCount int64
	require.NoError(t, f.db.Model(&model.LikeRecord{}).Where("activity_id = ?", 100).Count(&likeCount).Error)
	require.Zero(t, likeCount)
}

func TestApplyDeleteIsRepeatable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)
	activity := f.seedActivity(t, 100, 1, 10, time.Now())
	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))

	require.NoError(t, f.coordinator.ApplyDelete(ctx, []uint64{100}))
	// 已删除的活动再删一次是无害的空操作
	require.NoError(t, f.coordinator.ApplyDelete(ctx, []uint64{100}))
	require.NoError(t, f.coordinator.ApplyDelete(ctx, []uint64{404}))
}

func TestApplyHideAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)
	activity := f.seedActivity(t, 100, 1, 10, time.Now())
	f.seedTag(t, 1, "#go", 100)

	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, []string{"#go"}))

	require.NoError(t, f.coordinator.ApplyHide(ctx, 100, false))

	ok, err := f.partitions.Contains(ctx, "feed:everyone", 100)
	require.NoError(t, err)
	require.False(t, ok)

	// 记录保留，按 id 仍可访问
	got, err := f.activityRepo.GetActivityByID(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.False(t, got.ShowInStream)

	top, err := f.trending.TopHashtags(ctx, "person:1", 24, 10)
	require.NoError(t, err)
	require.Empty(t, top)

	// 恢复展示等价于重新扇出
	require.NoError(t, f.coordinator.ApplyHide(ctx, 100, true))
	ok, err = f.partitions.Contains(ctx, "feed:everyone", 100)
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, f.coordinator.ApplyHide(ctx, 404, false), ErrActivityNotFound)
}

func TestApplyVisibilityChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)
	a1 := f.seedActivity(t, 100, 1, 10, time.Now().Add(-time.Minute))
	a2 := f.seedActivity(t, 101, 1, 10, time.Now())

	require.NoError(t, f.coordinator.ApplyCreate(ctx, a1, nil))
	require.NoError(t, f.coordinator.ApplyCreate(ctx, a2, nil))

	// 公转私：公开分区清空，个人分区不动
	require.NoError(t, f.coordinator.ApplyVisibilityChange(ctx, 10, false))

	size, err := f.rdb.ZCard(ctx, "feed:everyone").Result()
	require.NoError(t, err)
	require.Zero(t, size)

	ok, err := f.partitions.Contains(ctx, "feed:person:1", 100)
	require.NoError(t, err)
	require.True(t, ok)

	stream, err := f.streamRepo.GetStreamByID(ctx, 10)
	require.NoError(t, err)
	require.False(t, stream.IsPublic)

	// 私转公：活动补回公开分区
	require.NoError(t, f.coordinator.ApplyVisibilityChange(ctx, 10, true))
	for _, id := range []uint64{100, 101} {
		ok, err = f.partitions.Contains(ctx, "feed:everyone", id)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// 同值翻转是空操作
	require.NoError(t, f.coordinator.ApplyVisibilityChange(ctx, 10, true))

	require.ErrorIs(t, f.coordinator.ApplyVisibilityChange(ctx, 0, true), ErrStreamInvalid)
	require.ErrorIs(t, f.coordinator.ApplyVisibilityChange(ctx, 404, true), ErrStreamNotFound)
}
