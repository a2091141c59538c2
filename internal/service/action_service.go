package service

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/model"
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const countCacheExpiration = 7 * 24 * time.Hour

// ActionService 点赞/收藏/评论
// 计数走缓存旁路：读缓存未命中回源落缓存，写走 INCR 并进脏集合，
// 由定时任务批量刷回数据库
type ActionService interface {
	LikeActivity(ctx context.Context, personID, activityID uint64) error
	CancelLikeActivity(ctx context.Context, personID, activityID uint64) error
	StarActivity(ctx context.Context, personID, activityID uint64) error
	CancelStarActivity(ctx context.Context, personID, activityID uint64) error
	CreateComment(ctx context.Context, personID uint64, req *dto.CommentCreateDTO) error
	GetActionState(ctx context.Context, personID, activityID uint64) (*dto.ActivityActionStateDTO, error)
	GetLikers(ctx context.Context, activityID uint64) ([]uint64, error)
	GetLikeCount(ctx context.Context, activityID uint64) (int64, error)
	GetStarCount(ctx context.Context, activityID uint64) (int64, error)
	GetCommentCount(ctx context.Context, activityID uint64) (int64, error)
}

type ActionServiceImpl struct {
	actionRepo   repository.ActionRepo
	activityRepo repository.ActivityRepo
	partitions   *cache.PartitionStore
}

func NewActionService(
	actionRepo repository.ActionRepo,
	activityRepo repository.ActivityRepo,
	partitions *cache.PartitionStore,
) ActionService {
	return &ActionServiceImpl{
		actionRepo:   actionRepo,
		activityRepo: activityRepo,
		partitions:   partitions,
	}
}

func (s *ActionServiceImpl) LikeActivity(ctx context.Context, personID, activityID uint64) error {
	activity, err := s.getActivityCheck(ctx, activityID)
	if err != nil {
		return err
	}
	if err = s.actionRepo.CreateLike(ctx, &model.LikeRecord{
		PersonID: personID, ActivityID: activityID, CreatedAt: time.Now(),
	}); err != nil {
		if isDuplicateError(err) {
			return ErrActionDuplicate
		}
		return err
	}

	s.bumpCount(ctx, consts.ActivityLikeCountKey, activityID, 1)
	s.syncLikersCache(ctx, activityID, personID, true)
	return s.partitions.Add(ctx, consts.FeedLikedKey+util.Uint64ToStr(personID), activityID, activity.PostedAt)
}

func (s *ActionServiceImpl) CancelLikeActivity(ctx context.Context, personID, activityID uint64) error {
	if _, err := s.getActivityCheck(ctx, activityID); err != nil {
		return err
	}
	if err := s.actionRepo.DeleteLike(ctx, personID, activityID); err != nil {
		return err
	}

	s.bumpCount(ctx, consts.ActivityLikeCountKey, activityID, -1)
	s.syncLikersCache(ctx, activityID, personID, false)
	return s.partitions.Remove(ctx, consts.FeedLikedKey+util.Uint64ToStr(personID), activityID)
}

func (s *ActionServiceImpl) StarActivity(ctx context.Context, personID, activityID uint64) error {
	activity, err := s.getActivityCheck(ctx, activityID)
	if err != nil {
		return err
	}
	if err = s.actionRepo.CreateStar(ctx, &model.StarRecord{
		PersonID: personID, ActivityID: activityID, CreatedAt: time.Now(),
	}); err != nil {
		if isDuplicateError(err) {
			return ErrActionDuplicate
		}
		return err
	}

	s.bumpCount(ctx, consts.ActivityStarCountKey, activityID, 1)
	return s.partitions.Add(ctx, consts.FeedStarredKey+util.Uint64ToStr(personID), activityID, activity.PostedAt)
}

func (s *ActionServiceImpl) CancelStarActivity(ctx context.Context, personID, activityID uint64) error {
	if _, err := s.getActivityCheck(ctx, activityID); err != nil {
		return err
	}
	if err := s.actionRepo.DeleteStar(ctx, personID, activityID); err != nil {
		return err
	}

	s.bumpCount(ctx, consts.ActivityStarCountKey, activityID, -1)
	return s.partitions.Remove(ctx, consts.FeedStarredKey+util.Uint64ToStr(personID), activityID)
}

func (s *ActionServiceImpl) CreateComment(ctx context.Context, personID uint64, req *dto.CommentCreateDTO) error {
	if _, err := s.getActivityCheck(ctx, req.ActivityID); err != nil {
		return err
	}
	now := time.Now()
	if err := s.actionRepo.CreateComment(ctx, &model.Comment{
		ActivityID: req.ActivityID,
		PersonID:   personID,
		Body:       req.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return err
	}

	s.bumpCount(ctx, consts.ActivityCommentCountKey, req.ActivityID, 1)
	return nil
}

func (s *ActionServiceImpl) GetActionState(ctx context.Context, personID, activityID uint64) (*dto.ActivityActionStateDTO, error) {
	if _, err := s.getActivityCheck(ctx, activityID); err != nil {
		return nil, err
	}

	state := &dto.ActivityActionStateDTO{}
	state.LikeCount, _ = s.GetLikeCount(ctx, activityID)
	state.StarCount, _ = s.GetStarCount(ctx, activityID)
	state.CommentCount, _ = s.GetCommentCount(ctx, activityID)

	if personID > 0 {
		state.IsLiked, _ = s.actionRepo.CheckLikeExists(ctx, personID, activityID)
		state.IsStarred, _ = s.actionRepo.CheckStarExists(ctx, personID, activityID)
	}
	return state, nil
}

// GetLikers 点赞人列表，集合缓存旁路，回源时整集落缓存
func (s *ActionServiceImpl) GetLikers(ctx context.Context, activityID uint64) ([]uint64, error) {
	if _, err := s.getActivityCheck(ctx, activityID); err != nil {
		return nil, err
	}

	likersKey := consts.ActivityLikersKey + util.Uint64ToStr(activityID)
	if members, err := redis.GetSet(ctx, likersKey); err == nil && len(members) > 0 {
		return util.StrSliceToUInt64Slice(members)
	}

	ids, err := s.actionRepo.GetLikerIDs(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		members := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			members = append(members, util.Uint64ToStr(id))
		}
		if err = redis.SAdd(ctx, likersKey, members...); err == nil {
			_ = redis.Expire(ctx, likersKey, countCacheExpiration)
		}
	}
	return ids, nil
}

func (s *ActionServiceImpl) GetLikeCount(ctx context.Context, activityID uint64) (int64, error) {
	return s.getCount(ctx, consts.ActivityLikeCountKey, activityID, s.actionRepo.GetLikeCountByActivityID)
}

func (s *ActionServiceImpl) GetStarCount(ctx context.Context, activityID uint64) (int64, error) {
	return s.getCount(ctx, consts.ActivityStarCountKey, activityID, s.actionRepo.GetStarCountByActivityID)
}

func (s *ActionServiceImpl) GetCommentCount(ctx context.Context, activityID uint64) (int64, error) {
	return s.getCount(ctx, consts.ActivityCommentCountKey, activityID, s.actionRepo.GetCommentCountByActivityID)
}

func (s *ActionServiceImpl) getCount(ctx context.Context, prefix string, activityID uint64, loader func(context.Context, uint64) (int64, error)) (int64, error) {
	key := prefix + util.Uint64ToStr(activityID)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	realCount, err := loader(ctx, activityID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, countCacheExpiration)
	return realCount, nil
}

// bumpCount 调整缓存计数并标脏，等待定时任务刷库
func (s *ActionServiceImpl) bumpCount(ctx context.Context, prefix string, activityID uint64, delta int64) {
	key := prefix + util.Uint64ToStr(activityID)
	if _, err := redis.GetInt64(ctx, key); err == nil {
		_ = redis.IncrBy(ctx, key, delta)
	}
	_ = redis.SAdd(ctx, consts.ActivityDirtyKey, activityID)
}

func (s *ActionServiceImpl) getActivityCheck(ctx context.Context, activityID uint64) (*model.Activity, error) {
	activity, err := s.activityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// syncLikersCache 点赞人集合的增量维护，未缓存时不建，留给读路径回源
func (s *ActionServiceImpl) syncLikersCache(ctx context.Context, activityID, personID uint64, add bool) {
	key := consts.ActivityLikersKey + util.Uint64ToStr(activityID)
	member := util.Uint64ToStr(personID)
	if !add {
		_ = redis.SRem(ctx, key, member)
		return
	}
	exists, err := redis.Exists(ctx, key)
	if err != nil || !exists {
		return
	}
	_ = redis.SAdd(ctx, key, member)
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
