package service

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/model"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type ActivityService interface {
	CreateActivity(ctx context.Context, actorID uint64, req *dto.ActivityCreateDTO) (*dto.ActivityDTO, error)
	GetActivity(ctx context.Context, id uint64) (*dto.ActivityDTO, error)
	DeleteActivities(ctx context.Context, actorID uint64, activityIDs []uint64) error
	SetShowInStream(ctx context.Context, actorID, activityID uint64, show bool) error
	ChangeStreamVisibility(ctx context.Context, streamID uint64, isPublic bool) error
}

type ActivityServiceImpl struct {
	activityRepo repository.ActivityRepo
	streamRepo   repository.StreamRepo
	hashtagRepo  repository.HashTagRepo
	coordinator  CacheConsistencyCoordinator
}

func NewActivityService(
	activityRepo repository.ActivityRepo,
	streamRepo repository.StreamRepo,
	hashtagRepo repository.HashTagRepo,
	coordinator CacheConsistencyCoordinator,
) ActivityService {
	return &ActivityServiceImpl{
		activityRepo: activityRepo,
		streamRepo:   streamRepo,
		hashtagRepo:  hashtagRepo,
		coordinator:  coordinator,
	}
}

// CreateActivity 落库后交给协调器扇出
func (s *ActivityServiceImpl) CreateActivity(ctx context.Context, actorID uint64, req *dto.ActivityCreateDTO) (*dto.ActivityDTO, error) {
	stream, err := s.streamRepo.GetStreamByEntity(ctx, req.StreamEntityType, req.StreamEntityID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, ErrStreamNotFound
	}

	tags := util.ExtractTags(req.Content)
	tagIDs := make([]uint64, 0, len(tags))
	for _, tag := range tags {
		hashtag, err := s.hashtagRepo.FindOrCreate(ctx, tag)
		if err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, hashtag.ID)
	}

	showInStream := true
	if req.ShowInStream != nil {
		showInStream = *req.ShowInStream
	}

	now := time.Now()
	activity := &model.Activity{
		ActorType:       consts.EntityPerson,
		ActorID:         actorID,
		OriginalActorID: req.OriginalActorID,
		StreamID:        stream.ID,
		Verb:            req.Verb,
		BaseObjectType:  req.BaseObjectType,
		Content:         req.Content,
		ShowInStream:    showInStream,
		PostedAt:        now,
		UpdatedAt:       now,
	}
	security := &model.ActivitySecurity{
		StreamID:     stream.ID,
		DestEntityID: stream.EntityID,
		IsPublic:     stream.IsPublic,
	}

	if err = s.activityRepo.CreateActivity(ctx, activity, security, tagIDs); err != nil {
		return nil, err
	}

	if err = s.coordinator.ApplyCreate(ctx, activity, tags); err != nil {
		return nil, err
	}

	return s.toDTO(activity, tags), nil
}

func (s *ActivityServiceImpl) GetActivity(ctx context.Context, id uint64) (*dto.ActivityDTO, error) {
	activity, err := s.activityRepo.GetActivityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	tagsMap, err := s.hashtagRepo.GetTagsByActivityIDs(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	return s.toDTO(activity, tagsMap[id]), nil
}

// DeleteActivities 只有作者本人能删除自己的活动
func (s *ActivityServiceImpl) DeleteActivities(ctx context.Context, actorID uint64, activityIDs []uint64) error {
	activities, err := s.activityRepo.GetActivityByIds(ctx, activityIDs)
	if err != nil {
		return err
	}
	if len(activities) == 0 {
		return ErrActivityNotFound
	}
	for _, activity := range activities {
		if activity.ActorID != actorID {
			return UnauthorizedError
		}
	}

	ownedIDs := make([]uint64, 0, len(activities))
	for _, activity := range activities {
		ownedIDs = append(ownedIDs, activity.ID)
	}
	return s.coordinator.ApplyDelete(ctx, ownedIDs)
}

func (s *ActivityServiceImpl) SetShowInStream(ctx context.Context, actorID, activityID uint64, show bool) error {
	activity, err := s.activityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return ErrActivityNotFound
	}
	if activity.ActorID != actorID {
		return UnauthorizedError
	}
	return s.coordinator.ApplyHide(ctx, activityID, show)
}

func (s *ActivityServiceImpl) ChangeStreamVisibility(ctx context.Context, streamID uint64, isPublic bool) error {
	return s.coordinator.ApplyVisibilityChange(ctx, streamID, isPublic)
}

func (s *ActivityServiceImpl) toDTO(activity *model.Activity, tags []string) *dto.ActivityDTO {
	item := &dto.ActivityDTO{}
	_ = copier.Copy(item, activity)
	item.Tags = tags
	if item.Tags == nil {
		item.Tags = make([]string, 0)
	}
	item.LikesCount = int64(activity.LikesCount)
	item.CommentsCount = int64(activity.CommentsCount)
	item.PostedAt = activity.PostedAt.Format("2006-01-02 15:04:05")
	return item
}
