package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveStreamIDByUniqueKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resolver := NewEntityResolver(f.streamRepo, f.entityRepo)

	f.seedStream(t, 10, "person", 1, true)
	f.seedPerson(t, 1, "alice", 10)

	id, err := resolver.ResolveStreamID(ctx, "person", "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(10), id)

	// 结果进缓存
	cached, err := f.rdb.Get(ctx, "stream:by_key:person:alice").Result()
	require.NoError(t, err)
	require.Equal(t, "10", cached)

	// 第二次命中缓存
	id, err = resolver.ResolveStreamID(ctx, "person", "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(10), id)
}

func TestResolveStreamIDStrictMiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resolver := NewEntityResolver(f.streamRepo, f.entityRepo)

	_, err := resolver.ResolveStreamID(ctx, "person", "nobody")
	require.ErrorIs(t, err, ErrEntityNotFound)

	// 实体在但流缺失
	f.seedPerson(t, 1, "alice", 10)
	_, err = resolver.ResolveStreamID(ctx, "person", "alice")
	require.ErrorIs(t, err, ErrStreamNotFound)

	_, err = resolver.ResolveStreamID(ctx, "person", "")
	require.ErrorIs(t, err, ErrParamInvalid)
}

func TestResolveEntityID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resolver := NewEntityResolver(f.streamRepo, f.entityRepo)

	f.seedStream(t, 20, "group", 7, false)

	entityType, entityID, err := resolver.ResolveEntityID(ctx, 20)
	require.NoError(t, err)
	require.Equal(t, "group", entityType)
	require.Equal(t, uint64(7), entityID)

	cached, err := f.rdb.Get(ctx, "entity:by_stream:20").Result()
	require.NoError(t, err)
	require.Equal(t, "group:7", cached)

	_, _, err = resolver.ResolveEntityID(ctx, 404)
	require.ErrorIs(t, err, ErrEntityNotFound)

	_, _, err = resolver.ResolveEntityID(ctx, 0)
	require.ErrorIs(t, err, ErrStreamInvalid)
}
