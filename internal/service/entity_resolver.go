package service

import (
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const entityCacheTTL = time.Hour

// EntityResolver 实体与流的双向查找，纯读不建
// 未命中时的 find-or-create 决策属于调用方
type EntityResolver interface {
	ResolveStreamID(ctx context.Context, entityType, uniqueKey string) (uint64, error)
	ResolveEntityID(ctx context.Context, streamID uint64) (entityType string, entityID uint64, err error)
}

type EntityResolverImpl struct {
	streamRepo repository.StreamRepo
	entityRepo repository.EntityRepo
	sf         singleflight.Group
}

func NewEntityResolver(streamRepo repository.StreamRepo, entityRepo repository.EntityRepo) EntityResolver {
	return &EntityResolverImpl{streamRepo: streamRepo, entityRepo: entityRepo}
}

// ResolveStreamID 按实体类型和唯一键查流 id，严格查找，未命中返回流不存在
func (s *EntityResolverImpl) ResolveStreamID(ctx context.Context, entityType, uniqueKey string) (uint64, error) {
	if uniqueKey == "" {
		return 0, ErrParamInvalid
	}

	cacheKey := consts.StreamByUniqueKey + entityType + ":" + uniqueKey
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		return util.StrToUint64(cached)
	}

	// 并发未命中合并为一次回源
	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		entityID, err := s.lookupEntityID(ctx, entityType, uniqueKey)
		if err != nil {
			return nil, err
		}
		stream, err := s.streamRepo.GetStreamByEntity(ctx, entityType, entityID)
		if err != nil {
			return nil, err
		}
		if stream == nil {
			return nil, ErrStreamNotFound
		}
		_ = redis.SetWithExpiration(ctx, cacheKey, util.Uint64ToStr(stream.ID), entityCacheTTL)
		return stream.ID, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(uint64), nil
}

// ResolveEntityID 反向：流 id 查实体，返回类型与 id
func (s *EntityResolverImpl) ResolveEntityID(ctx context.Context, streamID uint64) (string, uint64, error) {
	if streamID == 0 {
		return "", 0, ErrStreamInvalid
	}

	cacheKey := consts.EntityByStreamKey + util.Uint64ToStr(streamID)
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		return parseEntityRef(cached)
	}

	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		stream, err := s.streamRepo.GetStreamByID(ctx, streamID)
		if err != nil {
			return nil, err
		}
		if stream == nil {
			return nil, ErrEntityNotFound
		}
		ref := stream.EntityType + ":" + util.Uint64ToStr(stream.EntityID)
		_ = redis.SetWithExpiration(ctx, cacheKey, ref, entityCacheTTL)
		return ref, nil
	})
	if err != nil {
		return "", 0, err
	}
	return parseEntityRef(result.(string))
}

func (s *EntityResolverImpl) lookupEntityID(ctx context.Context, entityType, uniqueKey string) (uint64, error) {
	switch entityType {
	case consts.EntityPerson:
		person, err := s.entityRepo.GetPersonByUniqueKey(ctx, uniqueKey)
		if err != nil {
			return 0, err
		}
		if person == nil {
			return 0, ErrEntityNotFound
		}
		return person.ID, nil
	case consts.EntityGroup:
		group, err := s.entityRepo.GetGroupByUniqueKey(ctx, uniqueKey)
		if err != nil {
			return 0, err
		}
		if group == nil {
			return 0, ErrEntityNotFound
		}
		return group.ID, nil
	case consts.EntityOrganization:
		org, err := s.entityRepo.GetOrgByUniqueKey(ctx, uniqueKey)
		if err != nil {
			return 0, err
		}
		if org == nil {
			return 0, ErrEntityNotFound
		}
		return org.ID, nil
	default:
		return 0, ErrParamInvalid
	}
}

func parseEntityRef(ref string) (string, uint64, error) {
	idx := strings.LastIndex(ref, ":")
	if idx <= 0 {
		return "", 0, ErrEntityNotFound
	}
	entityID, err := util.StrToUint64(ref[idx+1:])
	if err != nil {
		return "", 0, err
	}
	return ref[:idx], entityID, nil
}
