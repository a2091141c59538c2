package service

import (
	"Streamline/internal/model"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
)

// FanoutEntry 单个活动需要写入的全部分区 key
type FanoutEntry struct {
	Activity *model.Activity
	Keys     []string
}

// FanoutPlan 一次批量解析的结果：逐活动 key 集合 + 全批去重 key 集合
type FanoutPlan struct {
	Entries map[uint64]*FanoutEntry
}

// AllKeys 跨活动去重后的分区 key 集合
// 批量删除 500 条同作者活动时，同一分区只会出现一次
func (p *FanoutPlan) AllKeys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, entry := range p.Entries {
		for _, key := range entry.Keys {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// FanoutResolver 计算活动影响的缓存分区集合，纯读不写
type FanoutResolver interface {
	Resolve(ctx context.Context, activities []*model.Activity) (*FanoutPlan, error)
	// ResolveAsPublic 假设目的流公开时的完整可达集合
	// 可见性翻转时与实际解算做差集，得到需要增删的分区
	ResolveAsPublic(ctx context.Context, activities []*model.Activity) (*FanoutPlan, error)
}

type FanoutResolverImpl struct {
	streamRepo   repository.StreamRepo
	entityRepo   repository.EntityRepo
	orgRepo      repository.OrgRepo
	followerRepo repository.FollowerRepo
}

func NewFanoutResolver(
	streamRepo repository.StreamRepo,
	entityRepo repository.EntityRepo,
	orgRepo repository.OrgRepo,
	followerRepo repository.FollowerRepo,
) FanoutResolver {
	return &FanoutResolverImpl{
		streamRepo:   streamRepo,
		entityRepo:   entityRepo,
		orgRepo:      orgRepo,
		followerRepo: followerRepo,
	}
}

// resolveMemo 单次 Resolve 内的查询记忆，批量活动共享
type resolveMemo struct {
	streams   map[uint64]*model.Stream
	groups    map[uint64]*model.DomainGroup
	people    map[uint64]*model.Person
	followers map[uint64][]uint64
	ancestors map[uint64][]uint64
}

func newResolveMemo() *resolveMemo {
	return &resolveMemo{
		streams:   make(map[uint64]*model.Stream),
		groups:    make(map[uint64]*model.DomainGroup),
		people:    make(map[uint64]*model.Person),
		followers: make(map[uint64][]uint64),
		ancestors: make(map[uint64][]uint64),
	}
}

func (s *FanoutResolverImpl) Resolve(ctx context.Context, activities []*model.Activity) (*FanoutPlan, error) {
	return s.resolve(ctx, activities, false)
}

func (s *FanoutResolverImpl) ResolveAsPublic(ctx context.Context, activities []*model.Activity) (*FanoutPlan, error) {
	return s.resolve(ctx, activities, true)
}

func (s *FanoutResolverImpl) resolve(ctx context.Context, activities []*model.Activity, forcePublic bool) (*FanoutPlan, error) {
	plan := &FanoutPlan{Entries: make(map[uint64]*FanoutEntry, len(activities))}
	memo := newResolveMemo()

	for _, activity := range activities {
		entry := &FanoutEntry{Activity: activity}
		plan.Entries[activity.ID] = entry

		// 不进流的活动只保留资源视图，完全不扇出
		if !activity.ShowInStream {
			continue
		}

		stream, err := s.lookupStream(ctx, activity.StreamID, memo)
		if err != nil {
			return nil, err
		}

		keySet := make(map[string]struct{})

		// 私有（或已失联）的目的流只扇出目的地授权分区，
		// 作者个人流与粉丝流对未授权读者可达，不能写入
		if stream != nil && (stream.IsPublic || forcePublic) {
			if err := s.collectAuthorKeys(ctx, activity, memo, keySet); err != nil {
				return nil, err
			}
		}
		if err := s.collectDestinationKeys(ctx, stream, forcePublic, memo, keySet); err != nil {
			return nil, err
		}

		entry.Keys = make([]string, 0, len(keySet))
		for key := range keySet {
			entry.Keys = append(entry.Keys, key)
		}
	}

	return plan, nil
}

// collectAuthorKeys 作者与原作者（转发）的个人流和粉丝流
// 作者账号已删除时跳过个人流扇出，目的地相关分区不受影响
func (s *FanoutResolverImpl) collectAuthorKeys(ctx context.Context, activity *model.Activity, memo *resolveMemo, keySet map[string]struct{}) error {
	authorIDs := []uint64{activity.ActorID}
	if activity.OriginalActorID != 0 && activity.OriginalActorID != activity.ActorID {
		authorIDs = append(authorIDs, activity.OriginalActorID)
	}

	for _, authorID := range authorIDs {
		person, err := s.lookupPerson(ctx, authorID, memo)
		if err != nil {
			return err
		}
		if person == nil {
			continue
		}

		keySet[consts.FeedPersonKey+util.Uint64ToStr(authorID)] = struct{}{}
		// 作者隐式关注自己
		keySet[consts.FeedFollowingKey+util.Uint64ToStr(authorID)] = struct{}{}

		followerIDs, err := s.lookupFollowers(ctx, authorID, memo)
		if err != nil {
			return err
		}
		for _, fid := range followerIDs {
			keySet[consts.FeedFollowingKey+util.Uint64ToStr(fid)] = struct{}{}
		}
	}
	return nil
}

func (s *FanoutResolverImpl) collectDestinationKeys(ctx context.Context, stream *model.Stream, forcePublic bool, memo *resolveMemo, keySet map[string]struct{}) error {
	if stream == nil {
		return nil
	}
	isPublic := stream.IsPublic || forcePublic

	switch stream.EntityType {
	case consts.EntityGroup:
		keySet[consts.FeedGroupKey+util.Uint64ToStr(stream.EntityID)] = struct{}{}
		if !isPublic {
			// 私有群组只进群组分区，成员按需读取
			return nil
		}

		group, err := s.lookupGroup(ctx, stream.EntityID, memo)
		if err != nil {
			return err
		}
		if group != nil && group.OrgID != 0 {
			if err := s.collectOrgChainKeys(ctx, group.OrgID, memo, keySet); err != nil {
				return err
			}
		}
		keySet[consts.FeedEveryoneKey] = struct{}{}

	case consts.EntityOrganization:
		if err := s.collectOrgChainKeys(ctx, stream.EntityID, memo, keySet); err != nil {
			return err
		}
		if isPublic {
			keySet[consts.FeedEveryoneKey] = struct{}{}
		}

	case consts.EntityPerson:
		keySet[consts.FeedPersonKey+util.Uint64ToStr(stream.EntityID)] = struct{}{}
		if isPublic {
			keySet[consts.FeedEveryoneKey] = struct{}{}
		}

	default:
		if isPublic {
			keySet[consts.FeedEveryoneKey] = struct{}{}
		}
	}

	return nil
}

// collectOrgChainKeys 组织及其全部祖先的分区，组织流聚合后代活动
func (s *FanoutResolverImpl) collectOrgChainKeys(ctx context.Context, orgID uint64, memo *resolveMemo, keySet map[string]struct{}) error {
	keySet[consts.FeedOrgKey+util.Uint64ToStr(orgID)] = struct{}{}

	ancestorIDs, err := s.lookupAncestors(ctx, orgID, memo)
	if err != nil {
		return err
	}
	for _, aid := range ancestorIDs {
		keySet[consts.FeedOrgKey+util.Uint64ToStr(aid)] = struct{}{}
	}
	return nil
}

func (s *FanoutResolverImpl) lookupStream(ctx context.Context, streamID uint64, memo *resolveMemo) (*model.Stream, error) {
	if stream, ok := memo.streams[streamID]; ok {
		return stream, nil
	}
	stream, err := s.streamRepo.GetStreamByID(ctx, streamID)
	if err != nil {
		return nil, err
	}
	memo.streams[streamID] = stream
	return stream, nil
}

func (s *FanoutResolverImpl) lookupGroup(ctx context.Context, groupID uint64, memo *resolveMemo) (*model.DomainGroup, error) {
	if group, ok := memo.groups[groupID]; ok {
		return group, nil
	}
	group, err := s.entityRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	memo.groups[groupID] = group
	return group, nil
}

func (s *FanoutResolverImpl) lookupPerson(ctx context.Context, personID uint64, memo *resolveMemo) (*model.Person, error) {
	if person, ok := memo.people[personID]; ok {
		return person, nil
	}
	person, err := s.entityRepo.GetPersonByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	memo.people[personID] = person
	return person, nil
}

func (s *FanoutResolverImpl) lookupFollowers(ctx context.Context, entityID uint64, memo *resolveMemo) ([]uint64, error) {
	if ids, ok := memo.followers[entityID]; ok {
		return ids, nil
	}
	ids, err := s.followerRepo.GetFollowerIDs(ctx, entityID)
	if err != nil {
		return nil, err
	}
	memo.followers[entityID] = ids
	return ids, nil
}

func (s *FanoutResolverImpl) lookupAncestors(ctx context.Context, orgID uint64, memo *resolveMemo) ([]uint64, error) {
	if ids, ok := memo.ancestors[orgID]; ok {
		return ids, nil
	}
	ids, err := s.orgRepo.GetAncestorOrgIDs(ctx, orgID)
	if err != nil {
		return nil, err
	}
	memo.ancestors[orgID] = ids
	return ids, nil
}
