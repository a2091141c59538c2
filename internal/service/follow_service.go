package service

import (
	"Streamline/internal/model"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
	"strconv"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, entityID uint64) error
	Unfollow(ctx context.Context, followerID, entityID uint64) error
	GetFollowers(ctx context.Context, entityID uint64, limit, offset int) ([]uint64, error)
	GetFollowerCount(ctx context.Context, entityID uint64) (int64, error)
	IsFollowing(ctx context.Context, followerID, entityID uint64) (bool, error)
}

type FollowServiceImpl struct {
	followerRepo repository.FollowerRepo
}

func NewFollowService(followerRepo repository.FollowerRepo) FollowService {
	return &FollowServiceImpl{followerRepo: followerRepo}
}

func (s *FollowServiceImpl) Follow(ctx context.Context, followerID, entityID uint64) error {
	if followerID == entityID {
		return ErrFollowSelf
	}

	isFollowing, err := s.IsFollowing(ctx, followerID, entityID)
	if err != nil {
		return err
	}
	if isFollowing {
		return ErrFollowExist
	}

	err = s.followerRepo.CreateFollower(ctx, &model.Follower{
		FollowerID:       followerID,
		FollowedEntityID: entityID,
		CreatedAt:        time.Now(),
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, entityID)
	return nil
}

func (s *FollowServiceImpl) Unfollow(ctx context.Context, followerID, entityID uint64) error {
	if err := s.followerRepo.DeleteFollower(ctx, followerID, entityID); err != nil {
		return err
	}
	s.invalidateCache(ctx, entityID)
	return nil
}

// GetFollowers 热数据走 ZSET 缓存，未命中回源并异步重建
func (s *FollowServiceImpl) GetFollowers(ctx context.Context, entityID uint64, limit, offset int) ([]uint64, error) {
	if offset+limit > consts.MaxFollowerCacheSize {
		rows, err := s.followerRepo.GetFollowers(ctx, entityID, limit, offset)
		if err != nil {
			return nil, err
		}
		return followerIDsOf(rows), nil
	}

	key := consts.EntityFollowerKey + util.Uint64ToStr(entityID)
	rdb := redis.GetRdbClient()

	res, err := rdb.ZRevRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err == nil && len(res) != 0 {
		return util.StrSliceToUInt64Slice(res)
	}

	dbData, err := s.followerRepo.GetFollowers(ctx, entityID, consts.MaxFollowerCacheSize, 0)
	if err != nil {
		return nil, err
	}
	if len(dbData) == 0 {
		return []uint64{}, nil
	}

	go func(data []*model.Follower, cacheKey string) {
		bgCtx := context.Background()
		_ = redis.DeleteKey(bgCtx, cacheKey) // 使用 Background context 防止 cancel
		pipe := rdb.Pipeline()
		zMembers := make([]redisv9.Z, 0, len(data))
		for _, item := range data {
			zMembers = append(zMembers, redisv9.Z{
				Score:  float64(item.CreatedAt.Unix()),
				Member: item.FollowerID,
			})
		}
		pipe.ZAdd(bgCtx, cacheKey, zMembers...)
		pipe.Expire(bgCtx, cacheKey, time.Hour*1)
		_, _ = pipe.Exec(bgCtx)
	}(dbData, key)

	start := offset
	end := offset + limit
	if start >= len(dbData) {
		return []uint64{}, nil
	}
	if end > len(dbData) {
		end = len(dbData)
	}
	return followerIDsOf(dbData[start:end]), nil
}

func (s *FollowServiceImpl) GetFollowerCount(ctx context.Context, entityID uint64) (int64, error) {
	key := consts.EntityFollowerCountKey + util.Uint64ToStr(entityID)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := s.followerRepo.GetFollowerCount(ctx, entityID)
	if err != nil {
		return 0, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, time.Hour*1)
	return count, nil
}

func (s *FollowServiceImpl) IsFollowing(ctx context.Context, followerID, entityID uint64) (bool, error) {
	key := consts.EntityFollowerKey + util.Uint64ToStr(entityID)
	_, found, err := redis.ZScore(ctx, key, util.Uint64ToStr(followerID))
	if err == nil && found {
		return true, nil
	}

	follower, err := s.followerRepo.GetFollower(ctx, followerID, entityID)
	if err != nil {
		return false, err
	}
	return follower != nil, nil
}

func (s *FollowServiceImpl) invalidateCache(ctx context.Context, entityID uint64) {
	_ = redis.DeleteKey(ctx, consts.EntityFollowerKey+util.Uint64ToStr(entityID))
	_ = redis.DeleteKey(ctx, consts.EntityFollowerCountKey+util.Uint64ToStr(entityID))
}

func followerIDsOf(rows []*model.Follower) []uint64 {
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FollowerID)
	}
	return ids
}
