package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFeedFixture(t *testing.T) (*fixture, FeedService) {
	f := newFixture(t)
	actionSvc := NewActionService(f.actionRepo, f.activityRepo, f.partitions)
	svc := NewFeedService(
		f.partitions,
		f.activityRepo,
		f.streamRepo,
		f.entityRepo,
		f.followerRepo,
		f.hashtagRepo,
		actionSvc,
		f.trending,
		nil,
	)
	return f, svc
}

func TestGetPersonFeedPrivateGate(t *testing.T) {
	f, svc := newFeedFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, false)
	f.seedPerson(t, 1, "alice", 10)
	f.seedFollower(t, 2, 1)

	activity := f.seedActivity(t, 100, 1, 10, time.Now())
	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))

	// 本人可读
	feed, err := svc.GetPersonFeed(ctx, 1, 1, 1, 20)
	require.NoError(t, err)
	require.Len(t, feed.List, 1)

	// 粉丝可读
	feed, err = svc.GetPersonFeed(ctx, 2, 1, 1, 20)
	require.NoError(t, err)
	require.Len(t, feed.List, 1)

	// 未登录和非粉丝都拒绝
	_, err = svc.GetPersonFeed(ctx, 0, 1, 1, 20)
	require.ErrorIs(t, err, UnauthorizedError)
	_, err = svc.GetPersonFeed(ctx, 3, 1, 1, 20)
	require.ErrorIs(t, err, UnauthorizedError)

	_, err = svc.GetPersonFeed(ctx, 0, 404, 1, 20)
	require.ErrorIs(t, err, ErrStreamNotFound)
}

func TestGetPersonFeedPublicOpen(t *testing.T) {
	f, svc := newFeedFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)

	activity := f.seedActivity(t, 100, 1, 10, time.Now())
	require.NoError(t, f.coordinator.ApplyCreate(ctx, activity, nil))

	feed, err := svc.GetPersonFeed(ctx, 0, 1, 1, 20)
	require.NoError(t, err)
	require.Len(t, feed.List, 1)
	require.Equal(t, uint64(100), feed.List[0].ID)
}
