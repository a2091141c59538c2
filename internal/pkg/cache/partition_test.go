package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PartitionStore {
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	return NewPartitionStore(client)
}

func TestPartitionAddAndRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Add(ctx, "feed:everyone", 1, base.Add(-2*time.Hour)))
	require.NoError(t, store.Add(ctx, "feed:everyone", 2, base.Add(-time.Hour)))
	require.NoError(t, store.Add(ctx, "feed:everyone", 3, base))

	// 从新到旧
	ids, err := store.Range(ctx, "feed:everyone", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 2, 1}, ids)

	ids, err = store.Range(ctx, "feed:everyone", 1, 1)
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, ids)
}

func TestPartitionAddKeepsFirstScore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Add(ctx, "feed:everyone", 1, base))
	require.NoError(t, store.Add(ctx, "feed:everyone", 1, base.Add(time.Hour)))

	size, err := store.Size(ctx, "feed:everyone")
	require.NoError(t, err)
	require.Equal(t, int64(1), size)

	score, err := store.Client().ZScore(ctx, "feed:everyone", "1").Result()
	require.NoError(t, err)
	require.InDelta(t, float64(base.UnixNano())/float64(time.Second), score, 0.001)
}

func TestPartitionAddToAllAndRemoveFromAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	keys := []string{"feed:everyone", "feed:person:1", "feed:org:2"}

	require.NoError(t, store.AddToAll(ctx, keys, 7, time.Now()))
	for _, key := range keys {
		ok, err := store.Contains(ctx, key, 7)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.NoError(t, store.RemoveFromAll(ctx, keys, []uint64{7}))
	for _, key := range keys {
		ok, err := store.Contains(ctx, key, 7)
		require.NoError(t, err)
		require.False(t, ok)
	}

	// 空入参零操作
	require.NoError(t, store.AddToAll(ctx, nil, 7, time.Now()))
	require.NoError(t, store.RemoveFromAll(ctx, keys, nil))
}

func TestPartitionContainsMissingKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Contains(ctx, "feed:group:404", 1)
	require.NoError(t, err)
	require.False(t, ok)

	ids, err := store.Range(ctx, "feed:group:404", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)
}
