package service

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/model"
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/es"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
)

// FeedService 分区读出口，分页由调用方的 page/pageSize 落到分区区间
type FeedService interface {
	GetEveryoneFeed(ctx context.Context, page, pageSize int) (*dto.FeedDTO, error)
	GetFollowingFeed(ctx context.Context, personID uint64, page, pageSize int) (*dto.FeedDTO, error)
	GetPersonFeed(ctx context.Context, viewerID, personID uint64, page, pageSize int) (*dto.FeedDTO, error)
	GetGroupFeed(ctx context.Context, viewerID, groupID uint64, page, pageSize int) (*dto.FeedDTO, error)
	GetOrgFeed(ctx context.Context, orgID uint64, page, pageSize int) (*dto.FeedDTO, error)
	GetLikedFeed(ctx context.Context, personID uint64, page, pageSize int) (*dto.FeedDTO, error)
	GetStarredFeed(ctx context.Context, personID uint64, page, pageSize int) (*dto.FeedDTO, error)
	GetTrendingTags(ctx context.Context, scopeKey string, windowHours, limit int) (*dto.TrendDTO, error)
	SearchActivities(ctx context.Context, query string, page, pageSize int) (*dto.FeedDTO, error)
}

type FeedServiceImpl struct {
	partitions   *cache.PartitionStore
	activityRepo repository.ActivityRepo
	streamRepo   repository.StreamRepo
	entityRepo   repository.EntityRepo
	followerRepo repository.FollowerRepo
	hashtagRepo  repository.HashTagRepo
	actionSvc    ActionService
	trending     TrendingAggregator
	esRepo       es.ActivityRepo
}

func NewFeedService(
	partitions *cache.PartitionStore,
	activityRepo repository.ActivityRepo,
	streamRepo repository.StreamRepo,
	entityRepo repository.EntityRepo,
	followerRepo repository.FollowerRepo,
	hashtagRepo repository.HashTagRepo,
	actionSvc ActionService,
	trending TrendingAggregator,
	esRepo es.ActivityRepo,
) FeedService {
	return &FeedServiceImpl{
		partitions:   partitions,
		activityRepo: activityRepo,
		streamRepo:   streamRepo,
		entityRepo:   entityRepo,
		followerRepo: followerRepo,
		hashtagRepo:  hashtagRepo,
		actionSvc:    actionSvc,
		trending:     trending,
		esRepo:       esRepo,
	}
}

func (s *FeedServiceImpl) GetEveryoneFeed(ctx context.Context, page, pageSize int) (*dto.FeedDTO, error) {
	return s.readPartition(ctx, consts.FeedEveryoneKey, page, pageSize)
}

func (s *FeedServiceImpl) GetFollowingFeed(ctx context.Context, personID uint64, page, pageSize int) (*dto.FeedDTO, error) {
	return s.readPartition(ctx, consts.FeedFollowingKey+util.Uint64ToStr(personID), page, pageSize)
}

// GetPersonFeed 私有个人流只有本人和粉丝可读
func (s *FeedServiceImpl) GetPersonFeed(ctx context.Context, viewerID, personID uint64, page, pageSize int) (*dto.FeedDTO, error) {
	stream, err := s.streamRepo.GetStreamByEntity(ctx, consts.EntityPerson, personID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, ErrStreamNotFound
	}
	if !stream.IsPublic && viewerID != personID {
		if viewerID == 0 {
			return nil, UnauthorizedError
		}
		follower, err := s.followerRepo.GetFollower(ctx, viewerID, personID)
		if err != nil {
			return nil, err
		}
		if follower == nil {
			return nil, UnauthorizedError
		}
	}
	return s.readPartition(ctx, consts.FeedPersonKey+util.Uint64ToStr(personID), page, pageSize)
}

// GetGroupFeed 私有群组的分区只有成员可读
func (s *FeedServiceImpl) GetGroupFeed(ctx context.Context, viewerID, groupID uint64, page, pageSize int) (*dto.FeedDTO, error) {
	stream, err := s.streamRepo.GetStreamByEntity(ctx, consts.EntityGroup, groupID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, ErrStreamNotFound
	}
	if !stream.IsPublic {
		if viewerID == 0 {
			return nil, UnauthorizedError
		}
		isMember, err := s.entityRepo.CheckGroupMember(ctx, groupID, viewerID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, UnauthorizedError
		}
	}
	return s.readPartition(ctx, consts.FeedGroupKey+util.Uint64ToStr(groupID), page, pageSize)
}

func (s *FeedServiceImpl) GetOrgFeed(ctx context.Context, orgID uint64, page, pageSize int) (*dto.FeedDTO, error) {
	return s.readPartition(ctx, consts.FeedOrgKey+util.Uint64ToStr(orgID), page, pageSize)
}

func (s *FeedServiceImpl) GetLikedFeed(ctx context.Context, personID uint64, page, pageSize int) (*dto.FeedDTO, error) {
	return s.readPartition(ctx, consts.FeedLikedKey+util.Uint64ToStr(personID), page, pageSize)
}

func (s *FeedServiceImpl) GetStarredFeed(ctx context.Context, personID uint64, page, pageSize int) (*dto.FeedDTO, error) {
	return s.readPartition(ctx, consts.FeedStarredKey+util.Uint64ToStr(personID), page, pageSize)
}

func (s *FeedServiceImpl) GetTrendingTags(ctx context.Context, scopeKey string, windowHours, limit int) (*dto.TrendDTO, error) {
	tags, err := s.trending.TopHashtags(ctx, scopeKey, windowHours, limit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = make([]string, 0)
	}
	return &dto.TrendDTO{ScopeKey: scopeKey, Tags: tags}, nil
}

// SearchActivities 走 ES，公开内容检索
func (s *FeedServiceImpl) SearchActivities(ctx context.Context, query string, page, pageSize int) (*dto.FeedDTO, error) {
	if query == "" {
		return nil, ErrParamInvalid
	}
	docs, err := s.esRepo.SearchActivities(ctx, query, true, (page-1)*pageSize, pageSize+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(docs) > pageSize
	if hasMore {
		docs = docs[:pageSize]
	}
	ids := make([]uint64, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	list, err := s.expandActivities(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &dto.FeedDTO{List: list, HasMore: hasMore}, nil
}

// readPartition 多取一条判断 HasMore
func (s *FeedServiceImpl) readPartition(ctx context.Context, key string, page, pageSize int) (*dto.FeedDTO, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := int64((page - 1) * pageSize)
	ids, err := s.partitions.Range(ctx, key, offset, int64(pageSize)+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(ids) > pageSize
	if hasMore {
		ids = ids[:pageSize]
	}

	list, err := s.expandActivities(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &dto.FeedDTO{List: list, HasMore: hasMore}, nil
}

// expandActivities 按分区内的顺序展开活动详情
func (s *FeedServiceImpl) expandActivities(ctx context.Context, ids []uint64) ([]*dto.ActivityDTO, error) {
	if len(ids) == 0 {
		return []*dto.ActivityDTO{}, nil
	}

	activities, err := s.activityRepo.GetActivityByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Activity, len(activities))
	for _, activity := range activities {
		byID[activity.ID] = activity
	}

	tagsMap, err := s.hashtagRepo.GetTagsByActivityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ActivityDTO, 0, len(ids))
	for _, id := range ids {
		activity, ok := byID[id]
		if !ok {
			continue
		}
		item := &dto.ActivityDTO{
			ID:              activity.ID,
			ActorType:       activity.ActorType,
			ActorID:         activity.ActorID,
			OriginalActorID: activity.OriginalActorID,
			StreamID:        activity.StreamID,
			Verb:            activity.Verb,
			BaseObjectType:  activity.BaseObjectType,
			Content:         activity.Content,
			ShowInStream:    activity.ShowInStream,
			PostedAt:        activity.PostedAt.Format("2006-01-02 15:04:05"),
		}
		item.Tags = tagsMap[id]
		if item.Tags == nil {
			item.Tags = make([]string, 0)
		}
		item.LikesCount, _ = s.actionSvc.GetLikeCount(ctx, id)
		item.StarsCount, _ = s.actionSvc.GetStarCount(ctx, id)
		item.CommentsCount, _ = s.actionSvc.GetCommentCount(ctx, id)
		list = append(list, item)
	}
	return list, nil
}
