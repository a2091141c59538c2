package service

import (
	"Streamline/internal/model"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/repository"
	"context"
)

// Classification 安全分类结果
// Public 中的活动全员可见；Private 为 activityID -> 授权锚点实体 id，
// 0 表示目的实体已不存在，等效不可见
type Classification struct {
	Public  []uint64
	Private map[uint64]uint64
}

// SecurityFilter 只负责分类与授权锚点标记，不解析成员关系
type SecurityFilter interface {
	Classify(ctx context.Context, descriptors []*model.ActivitySecurity) (*Classification, error)
}

type SecurityFilterImpl struct {
	streamRepo repository.StreamRepo
	entityRepo repository.EntityRepo
}

func NewSecurityFilter(streamRepo repository.StreamRepo, entityRepo repository.EntityRepo) SecurityFilter {
	return &SecurityFilterImpl{streamRepo: streamRepo, entityRepo: entityRepo}
}

func (s *SecurityFilterImpl) Classify(ctx context.Context, descriptors []*model.ActivitySecurity) (*Classification, error) {
	result := &Classification{
		Public:  make([]uint64, 0, len(descriptors)),
		Private: make(map[uint64]uint64),
	}

	// 同一批内流信息只查一次
	streamCache := make(map[uint64]*model.Stream)

	for _, desc := range descriptors {
		if desc == nil || desc.StreamID == 0 {
			return nil, ErrStreamInvalid
		}

		if desc.IsPublic {
			result.Public = append(result.Public, desc.ActivityID)
			continue
		}

		stream, ok := streamCache[desc.StreamID]
		if !ok {
			var err error
			stream, err = s.streamRepo.GetStreamByID(ctx, desc.StreamID)
			if err != nil {
				return nil, err
			}
			streamCache[desc.StreamID] = stream
		}

		if stream == nil {
			result.Private[desc.ActivityID] = 0
			continue
		}

		exists, err := s.destEntityExists(ctx, stream)
		if err != nil {
			return nil, err
		}
		if !exists {
			// 目的实体已删除：按私有且无授权处理，而不是报错
			result.Private[desc.ActivityID] = 0
			continue
		}

		result.Private[desc.ActivityID] = desc.DestEntityID
	}

	return result, nil
}

func (s *SecurityFilterImpl) destEntityExists(ctx context.Context, stream *model.Stream) (bool, error) {
	switch stream.EntityType {
	case consts.EntityPerson:
		person, err := s.entityRepo.GetPersonByID(ctx, stream.EntityID)
		return person != nil, err
	case consts.EntityGroup:
		group, err := s.entityRepo.GetGroupByID(ctx, stream.EntityID)
		return group != nil, err
	case consts.EntityOrganization:
		org, err := s.entityRepo.GetOrgByID(ctx, stream.EntityID)
		return org != nil, err
	default:
		return true, nil
	}
}
