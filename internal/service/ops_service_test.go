package service

import (
	"Streamline/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

// errFailureRepo 让 MarkResolved 返回指定错误
type errFailureRepo struct {
	*stubFailureRepo
	resolveErr error
}

func (s *errFailureRepo) MarkResolved(_ context.Context, _ string) error { return s.resolveErr }

func TestGetFanoutFailures(t *testing.T) {
	repo := &stubFailureRepo{}
	objectID := primitive.NewObjectID()
	repo.failures = append(repo.failures, &mongo.FanoutFailureModel{
		ID:         objectID,
		ActivityID: 100,
		Operation:  "create",
		Keys:       []string{"feed:everyone", "feed:person:1"},
		LastError:  "connection refused",
		Attempts:   3,
		Status:     mongo.FailureStatusPending,
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})

	svc := NewOpsService(repo)
	page, err := svc.GetFanoutFailures(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	require.Len(t, page.List, 1)
	require.Equal(t, objectID.Hex(), page.List[0].ID)
	require.Equal(t, uint64(100), page.List[0].ActivityID)
	require.Equal(t, []string{"feed:everyone", "feed:person:1"}, page.List[0].Keys)
	require.Equal(t, "2026-08-01 12:00:00", page.List[0].CreatedAt)
}

func TestResolveFanoutFailure(t *testing.T) {
	ctx := context.Background()

	svc := NewOpsService(&stubFailureRepo{})
	require.NoError(t, svc.ResolveFanoutFailure(ctx, primitive.NewObjectID().Hex()))
	require.ErrorIs(t, svc.ResolveFanoutFailure(ctx, ""), ErrParamInvalid)

	// 仓储错误映射成业务错误
	svc = NewOpsService(&errFailureRepo{stubFailureRepo: &stubFailureRepo{}, resolveErr: mongodrv.ErrNoDocuments})
	require.ErrorIs(t, svc.ResolveFanoutFailure(ctx, primitive.NewObjectID().Hex()), ErrRecordNotFound)

	svc = NewOpsService(&errFailureRepo{stubFailureRepo: &stubFailureRepo{}, resolveErr: mongodrv.ErrInvalidIndexValue})
	require.ErrorIs(t, svc.ResolveFanoutFailure(ctx, "not-a-hex"), ErrParamInvalid)
}

func TestGetLeakFindings(t *testing.T) {
	repo := &stubFailureRepo{}
	objectID := primitive.NewObjectID()
	repo.findings = append(repo.findings, &mongo.LeakFindingModel{
		ID:           objectID,
		ActivityID:   100,
		PartitionKey: "feed:following:2",
		StreamID:     30,
		Purged:       true,
		CreatedAt:    time.Date(2026, 8, 2, 8, 30, 0, 0, time.UTC),
	})

	svc := NewOpsService(repo)
	list, err := svc.GetLeakFindings(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, objectID.Hex(), list[0].ID)
	require.Equal(t, "feed:following:2", list[0].PartitionKey)
	require.True(t, list[0].Purged)
}
