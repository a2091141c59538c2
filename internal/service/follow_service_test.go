package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFollowLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewFollowService(f.followerRepo)
	ctx := context.Background()

	require.ErrorIs(t, svc.Follow(ctx, 1, 1), ErrFollowSelf)

	require.NoError(t, svc.Follow(ctx, 1, 2))
	require.ErrorIs(t, svc.Follow(ctx, 1, 2), ErrFollowExist)

	following, err := svc.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, following)

	count, err := svc.GetFollowerCount(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, svc.Unfollow(ctx, 1, 2))
	following, err = svc.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	require.False(t, following)
}

func TestGetFollowersPagination(t *testing.T) {
	f := newFixture(t)
	svc := NewFollowService(f.followerRepo)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, f.db.Exec(
			"INSERT INTO followers (follower_id, followed_entity_id, created_at) VALUES (?, ?, ?)",
			i, uint64(9), base.Add(time.Duration(i)*time.Minute),
		).Error)
	}

	// 关注时间从新到旧
	ids, err := svc.GetFollowers(ctx, 9, 3, 0)
	require.NoError(t, err)
	require.Equal(t, []uint64{5, 4, 3}, ids)

	ids, err = svc.GetFollowers(ctx, 9, 3, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 1}, ids)

	ids, err = svc.GetFollowers(ctx, 404, 10, 0)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestFollowerCountCached(t *testing.T) {
	f := newFixture(t)
	svc := NewFollowService(f.followerRepo)
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, 1, 9))
	require.NoError(t, svc.Follow(ctx, 2, 9))

	count, err := svc.GetFollowerCount(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	cached, err := f.rdb.Get(ctx, "entity:follower:count:9").Result()
	require.NoError(t, err)
	require.Equal(t, "2", cached)

	// 关注变化使缓存失效
	require.NoError(t, svc.Follow(ctx, 3, 9))
	_, err = f.rdb.Get(ctx, "entity:follower:count:9").Result()
	require.Error(t, err)
}
