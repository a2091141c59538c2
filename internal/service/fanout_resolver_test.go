package service

import (
	"Streamline/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveAuthorAndFollowers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)
	f.seedFollower(t, 2, 1)
	f.seedFollower(t, 3, 1)

	activity := f.seedActivity(t, 100, 1, 10, time.Now())

	plan, err := f.resolver.Resolve(ctx, []*model.Activity{activity})
	require.NoError(t, err)

	entry := plan.Entries[100]
	require.NotNil(t, entry)
	require.ElementsMatch(t, []string{
		"feed:person:1",
		"feed:following:1",
		"feed:following:2",
		"feed:following:3",
		"feed:everyone",
	}, entry.Keys)
}

func TestResolveRepostIncludesOriginalActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)
	f.seedPerson(t, 5, "bob", 11)
	f.seedFollower(t, 6, 5)

	activity := f.seedActivity(t, 100, 1, 10, time.Now())
	activity.OriginalActorID = 5

	plan, err := f.resolver.Resolve(ctx, []*model.Activity{activity})
	require.NoError(t, err)

	keys := plan.Entries[100].Keys
	require.Contains(t, keys, "feed:person:5")
	require.Contains(t, keys, "feed:following:5")
	require.Contains(t, keys, "feed:following:6")
}

func TestResolveDeletedAuthorSkipsPersonalPartitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 作者不存在，目的流仍然公开
	f.seedStream(t, 10, "person", 9, true)
	f.seedPerson(t, 9, "carol", 10)

	activity := f.seedActivity(t, 100, 404, 10, time.Now())

	plan, err := f.resolver.Resolve(ctx, []*model.Activity{activity})
	require.NoError(t, err)

	keys := plan.Entries[100].Keys
	require.NotContains(t, keys, "feed:person:404")
	require.NotContains(t, keys, "feed:following:404")
	require.Contains(t, keys, "feed:person:9")
	require.Contains(t, keys, "feed:everyone")
}

func TestResolvePublicGroupFansOutToOrgChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedOrg(t, 1, "root-org", 20, 0)
	f.seedOrg(t, 2, "sub-org", 21, 1)
	f.seedStream(t, 30, "group", 7, true)
	f.seedGroup(t, 7, "team-a", 30, 2)
	f.seedPerson(t, 1, "alice", 40)
	f.seedStream(t, 40, "person", 1, true)

	activity := f.seedActivity(t, 100, 1, 30, time.Now())

	plan, err := f.resolver.Resolve(ctx, []*model.Activity{activity})
	require.NoError(t, err)

	keys := plan.Entries[100].Keys
	require.Contains(t, keys, "feed:group:7")
	require.Contains(t, keys, "feed:org:2")
	require.Contains(t, keys, "feed:org:1")
	require.Contains(t, keys, "feed:everyone")
}

func TestResolvePrivateGroupStaysInGroupPartition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedOrg(t, 1, "root-org", 20, 0)
	f.seedStream(t, 30, "group", 7, false)
	f.seedGroup(t, 7, "team-a", 30, 1)

	// 真实作者带粉丝：私有群组活动也不进作者个人流和粉丝流
	f.seedStream(t, 40, "person", 1, true)
	f.seedPerson(t, 1, "alice", 40)
	f.seedFollower(t, 2, 1)

	activity := f.seedActivity(t, 100, 1, 30, time.Now())

	plan, err := f.resolver.Resolve(ctx, []*model.Activity{activity})
	require.NoError(t, err)

	require.Equal(t, []string{"feed:group:7"}, plan.Entries[100].Keys)
}

func TestResolveHiddenActivityHasNoKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)

	activity := f.seedActivity(t, 100, 1, 10, time.Now())
	activity.ShowInStream = false

	plan, err := f.resolver.Resolve(ctx, []*model.Activity{activity})
	require.NoError(t, err)
	require.Empty(t, plan.Entries[100].Keys)
}

func TestAllKeysDeduplicatesAcrossBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)

	a1 := f.seedActivity(t, 100, 1, 10, time.Now())
	a2 := f.seedActivity(t, 101, 1, 10, time.Now())

	plan, err := f.resolver.Resolve(ctx, []*model.Activity{a1, a2})
	require.NoError(t, err)

	all := plan.AllKeys()
	seen := make(map[string]int)
	for _, key := range all {
		seen[key]++
	}
	for key, n := range seen {
		require.Equal(t, 1, n, "key %s appears %d times", key, n)
	}
	require.Contains(t, all, "feed:everyone")
}

func TestAncestorWalkStopsOnCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 父链成环：3 -> 2 -> 1 -> 3
	f.seedOrg(t, 1, "org-a", 11, 3)
	f.seedOrg(t, 2, "org-b", 12, 1)
	f.seedOrg(t, 3, "org-c", 13, 2)

	ancestors, err := f.orgRepo.GetAncestorOrgIDs(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 1}, ancestors)
}
