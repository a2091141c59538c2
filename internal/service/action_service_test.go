package service

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/util"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newActionFixture(t *testing.T) (*fixture, ActionService) {
	f := newFixture(t)
	svc := NewActionService(f.actionRepo, f.activityRepo, f.partitions)

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)
	f.seedActivity(t, 100, 1, 10, time.Now())
	return f, svc
}

func TestLikeActivity(t *testing.T) {
	f, svc := newActionFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.LikeActivity(ctx, 2, 100))

	// 重复点赞
	require.ErrorIs(t, svc.LikeActivity(ctx, 2, 100), ErrActionDuplicate)

	// 点赞过的活动进个人分区
	ok, err := f.partitions.Contains(ctx, "feed:liked:2", 100)
	require.NoError(t, err)
	require.True(t, ok)

	count, err := svc.GetLikeCount(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, svc.CancelLikeActivity(ctx, 2, 100))
	ok, err = f.partitions.Contains(ctx, "feed:liked:2", 100)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, svc.LikeActivity(ctx, 2, 404), ErrActivityNotFound)
}

func TestStarActivity(t *testing.T) {
	f, svc := newActionFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.StarActivity(ctx, 2, 100))
	require.ErrorIs(t, svc.StarActivity(ctx, 2, 100), ErrActionDuplicate)

	ok, err := f.partitions.Contains(ctx, "feed:starred:2", 100)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.CancelStarActivity(ctx, 2, 100))
	ok, err = f.partitions.Contains(ctx, "feed:starred:2", 100)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCommentAndActionState(t *testing.T) {
	_, svc := newActionFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateComment(ctx, 2, &dto.CommentCreateDTO{ActivityID: 100, Content: "nice"}))
	require.NoError(t, svc.LikeActivity(ctx, 2, 100))

	state, err := svc.GetActionState(ctx, 2, 100)
	require.NoError(t, err)
	require.Equal(t, int64(1), state.LikeCount)
	require.Equal(t, int64(1), state.CommentCount)
	require.Zero(t, state.StarCount)
	require.True(t, state.IsLiked)
	require.False(t, state.IsStarred)

	// 未登录视角只有计数
	state, err = svc.GetActionState(ctx, 0, 100)
	require.NoError(t, err)
	require.False(t, state.IsLiked)
}

func TestCountCacheAside(t *testing.T) {
	f, svc := newActionFixture(t)
	ctx := context.Background()

	// 首次回源落缓存
	count, err := svc.GetLikeCount(ctx, 100)
	require.NoError(t, err)
	require.Zero(t, count)

	cached, err := f.rdb.Get(ctx, "activity:like:count:100").Result()
	require.NoError(t, err)
	require.Equal(t, "0", cached)

	// 写路径对已缓存计数做增量，并标记脏
	require.NoError(t, svc.LikeActivity(ctx, 2, 100))
	cached, err = f.rdb.Get(ctx, "activity:like:count:100").Result()
	require.NoError(t, err)
	require.Equal(t, "1", cached)

	dirty, err := f.rdb.SMembers(ctx, "activity:dirty").Result()
	require.NoError(t, err)
	require.Equal(t, []string{"100"}, dirty)
}

func TestConcurrentLikesNoLostUpdate(t *testing.T) {
	f, svc := newActionFixture(t)
	ctx := context.Background()

	// 不同人并发点赞同一活动，计数不丢不重
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.LikeActivity(ctx, uint64(i+1), 100)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	count, err := f.actionRepo.GetLikeCountByActivityID(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, int64(8), count)

	for i := 0; i < 8; i++ {
		ok, err := f.partitions.Contains(ctx, "feed:liked:"+util.Uint64ToStr(uint64(i+1)), 100)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// 同一人并发重复点赞，恰好一次生效
	results := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.LikeActivity(ctx, 99, 100)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrActionDuplicate)
		}
	}
	require.Equal(t, 1, succeeded)

	count, err = f.actionRepo.GetLikeCountByActivityID(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, int64(9), count)
}

func TestGetLikers(t *testing.T) {
	_, svc := newActionFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.LikeActivity(ctx, 2, 100))
	require.NoError(t, svc.LikeActivity(ctx, 3, 100))

	likers, err := svc.GetLikers(ctx, 100)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{2, 3}, likers)

	_, err = svc.GetLikers(ctx, 404)
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestGetLikersCacheFollowsActions(t *testing.T) {
	f, svc := newActionFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.LikeActivity(ctx, 2, 100))
	require.NoError(t, svc.LikeActivity(ctx, 3, 100))

	// 首次读回源并落整集缓存
	likers, err := svc.GetLikers(ctx, 100)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{2, 3}, likers)

	likersKey := "activity:likers:100"
	members, err := f.rdb.SMembers(ctx, likersKey).Result()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"2", "3"}, members)

	// 缓存存在时增量维护，后续读不需回源
	require.NoError(t, svc.LikeActivity(ctx, 4, 100))
	require.NoError(t, svc.CancelLikeActivity(ctx, 2, 100))

	members, err = f.rdb.SMembers(ctx, likersKey).Result()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"3", "4"}, members)

	likers, err = svc.GetLikers(ctx, 100)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{3, 4}, likers)
}
