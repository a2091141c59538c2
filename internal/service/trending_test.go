package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrendingRankOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	scope := []string{"group:1"}

	// #bar 4 次、#foo 3 次、#baz 2 次
	var id uint64 = 1
	for i := 0; i < 4; i++ {
		require.NoError(t, f.trending.Record(ctx, scope, []string{"#bar"}, id, now))
		id++
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, f.trending.Record(ctx, scope, []string{"#foo"}, id, now))
		id++
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, f.trending.Record(ctx, scope, []string{"#baz"}, id, now))
		id++
	}

	top, err := f.trending.TopHashtags(ctx, "group:1", 24, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"#bar", "#foo"}, top)

	top, err = f.trending.TopHashtags(ctx, "group:1", 24, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"#bar", "#foo", "#baz"}, top)
}

func TestTrendingSameActivityCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	scope := []string{"org:1"}

	require.NoError(t, f.trending.Record(ctx, scope, []string{"#go"}, 1, now))
	require.NoError(t, f.trending.Record(ctx, scope, []string{"#go"}, 1, now.Add(time.Minute)))
	require.NoError(t, f.trending.Record(ctx, scope, []string{"#rust"}, 2, now))
	require.NoError(t, f.trending.Record(ctx, scope, []string{"#rust"}, 3, now))

	top, err := f.trending.TopHashtags(ctx, "org:1", 24, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"#rust", "#go"}, top)
}

func TestTrendingRejectsInvalidTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.trending.Record(ctx, []string{"group:1"}, []string{"UPPER"}, 1, time.Now())
	require.ErrorIs(t, err, ErrHashtagInvalid)

	err = f.trending.Record(ctx, []string{"group:1"}, []string{"#"}, 1, time.Now())
	require.ErrorIs(t, err, ErrHashtagInvalid)
}

func TestTrendingWindowExcludesOldContribs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	scope := []string{"group:1"}

	require.NoError(t, f.trending.Record(ctx, scope, []string{"#old"}, 1, now.Add(-48*time.Hour)))
	require.NoError(t, f.trending.Record(ctx, scope, []string{"#new"}, 2, now))

	top, err := f.trending.TopHashtags(ctx, "group:1", 24, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"#new"}, top)

	// 更大的窗口能看到旧贡献
	top, err = f.trending.TopHashtags(ctx, "group:1", 72, 10)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"#new", "#old"}, top)
}

func TestTrendingRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	scope := []string{"group:1", "org:2"}

	require.NoError(t, f.trending.Record(ctx, scope, []string{"#go"}, 1, now))
	require.NoError(t, f.trending.Remove(ctx, scope, []string{"#go"}, 1))

	for _, key := range []string{"group:1", "org:2"} {
		top, err := f.trending.TopHashtags(ctx, key, 24, 10)
		require.NoError(t, err)
		require.Empty(t, top)
	}
}

func TestTrendingSweepExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	scope := []string{"group:1"}

	require.NoError(t, f.trending.Record(ctx, scope, []string{"#stale"}, 1, now.Add(-200*time.Hour)))
	require.NoError(t, f.trending.Record(ctx, scope, []string{"#fresh"}, 2, now))

	require.NoError(t, f.trending.SweepExpired(ctx))

	members, err := f.rdb.ZRange(ctx, "trend:contrib:group:1", 0, -1).Result()
	require.NoError(t, err)
	require.Equal(t, []string{"#fresh|2"}, members)
}
