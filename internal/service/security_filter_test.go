package service

import (
	"Streamline/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPublic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.filter.Classify(ctx, []*model.ActivitySecurity{
		{ActivityID: 1, StreamID: 10, DestEntityID: 7, IsPublic: true},
		{ActivityID: 2, StreamID: 10, DestEntityID: 7, IsPublic: true},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{1, 2}, result.Public)
	require.Empty(t, result.Private)
}

func TestClassifyPrivateWithAnchor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedStream(t, 10, "group", 7, false)
	f.seedGroup(t, 7, "team-a", 10, 0)

	result, err := f.filter.Classify(ctx, []*model.ActivitySecurity{
		{ActivityID: 1, StreamID: 10, DestEntityID: 7, IsPublic: false},
	})
	require.NoError(t, err)
	require.Empty(t, result.Public)
	require.Equal(t, uint64(7), result.Private[1])
}

func TestClassifyDeletedDestEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 流还在，目的实体已不存在
	f.seedStream(t, 10, "person", 99, false)

	result, err := f.filter.Classify(ctx, []*model.ActivitySecurity{
		{ActivityID: 1, StreamID: 10, DestEntityID: 99, IsPublic: false},
	})
	require.NoError(t, err)
	anchor, ok := result.Private[1]
	require.True(t, ok)
	require.Equal(t, uint64(0), anchor)
}

func TestClassifyMissingStream(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.filter.Classify(ctx, []*model.ActivitySecurity{
		{ActivityID: 1, StreamID: 404, DestEntityID: 7, IsPublic: false},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), result.Private[1])
}

func TestClassifyInvalidDescriptor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.filter.Classify(ctx, []*model.ActivitySecurity{
		{ActivityID: 1, StreamID: 0, IsPublic: false},
	})
	require.ErrorIs(t, err, ErrStreamInvalid)

	_, err = f.filter.Classify(ctx, []*model.ActivitySecurity{nil})
	require.ErrorIs(t, err, ErrStreamInvalid)
}
