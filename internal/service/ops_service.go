package service

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/mongo"
	"context"
	"errors"

	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

// OpsService 运维出口：扇出失败记录的查询处理与泄露巡检留档
type OpsService interface {
	GetFanoutFailures(ctx context.Context, page, pageSize int) (*dto.FanoutFailurePageDTO, error)
	ResolveFanoutFailure(ctx context.Context, id string) error
	GetLeakFindings(ctx context.Context, page, pageSize int) ([]*dto.LeakFindingDTO, error)
}

type OpsServiceImpl struct {
	failureRepo mongo.FanoutFailureRepo
}

func NewOpsService(failureRepo mongo.FanoutFailureRepo) OpsService {
	return &OpsServiceImpl{failureRepo: failureRepo}
}

func (s *OpsServiceImpl) GetFanoutFailures(ctx context.Context, page, pageSize int) (*dto.FanoutFailurePageDTO, error) {
	limit, offset := pageBounds(page, pageSize)
	list, err := s.failureRepo.GetPendingList(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.failureRepo.GetPendingCount(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.FanoutFailurePageDTO{Total: total, List: make([]*dto.FanoutFailureDTO, 0, len(list))}
	for _, item := range list {
		result.List = append(result.List, &dto.FanoutFailureDTO{
			ID:         item.ID.Hex(),
			ActivityID: item.ActivityID,
			Operation:  item.Operation,
			Keys:       item.Keys,
			LastError:  item.LastError,
			Attempts:   item.Attempts,
			Status:     item.Status,
			CreatedAt:  item.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return result, nil
}

func (s *OpsServiceImpl) ResolveFanoutFailure(ctx context.Context, id string) error {
	if id == "" {
		return ErrParamInvalid
	}
	err := s.failureRepo.MarkResolved(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongodrv.ErrNoDocuments):
		return ErrRecordNotFound
	case errors.Is(err, mongodrv.ErrInvalidIndexValue):
		return ErrParamInvalid
	default:
		return err
	}
}

func (s *OpsServiceImpl) GetLeakFindings(ctx context.Context, page, pageSize int) ([]*dto.LeakFindingDTO, error) {
	limit, offset := pageBounds(page, pageSize)
	list, err := s.failureRepo.GetLeakFindingList(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.LeakFindingDTO, 0, len(list))
	for _, item := range list {
		result = append(result, &dto.LeakFindingDTO{
			ID:           item.ID.Hex(),
			ActivityID:   item.ActivityID,
			PartitionKey: item.PartitionKey,
			StreamID:     item.StreamID,
			Purged:       item.Purged,
			CreatedAt:    item.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return result, nil
}

func pageBounds(page, pageSize int) (limit, offset int64) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return int64(pageSize), int64((page - 1) * pageSize)
}
