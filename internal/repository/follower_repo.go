package repository

import (
	"Streamline/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type FollowerRepo interface {
	CreateFollower(ctx context.Context, follower *model.Follower) error
	DeleteFollower(ctx context.Context, followerID, followedEntityID uint64) error
	GetFollower(ctx context.Context, followerID, followedEntityID uint64) (*model.Follower, error)
	GetFollowers(ctx context.Context, followedEntityID uint64, limit, offset int) ([]*model.Follower, error)
	GetFollowerIDs(ctx context.Context, followedEntityID uint64) ([]uint64, error)
	GetFollowerIDsBulk(ctx context.Context, followedEntityIDs []uint64) (map[uint64][]uint64, error)
	GetFollowerCount(ctx context.Context, followedEntityID uint64) (int64, error)
}

type FollowerRepoImpl struct {
	db *gorm.DB
}

func NewFollowerRepo(db *gorm.DB) FollowerRepo {
	return &FollowerRepoImpl{db}
}

func (s *FollowerRepoImpl) CreateFollower(ctx context.Context, follower *model.Follower) error {
	return s.db.WithContext(ctx).Create(follower).Error
}

func (s *FollowerRepoImpl) DeleteFollower(ctx context.Context, followerID, followedEntityID uint64) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_entity_id = ?", followerID, followedEntityID).
		Delete(&model.Follower{}).Error
}

func (s *FollowerRepoImpl) GetFollower(ctx context.Context, followerID, followedEntityID uint64) (*model.Follower, error) {
	var follower model.Follower
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_entity_id = ?", followerID, followedEntityID).
		First(&follower).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &follower, nil
}

func (s *FollowerRepoImpl) GetFollowers(ctx context.Context, followedEntityID uint64, limit, offset int) ([]*model.Follower, error) {
	var rows []*model.Follower
	err := s.db.WithContext(ctx).
		Where("followed_entity_id = ?", followedEntityID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (s *FollowerRepoImpl) GetFollowerIDs(ctx context.Context, followedEntityID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Follower{}).
		Where("followed_entity_id = ?", followedEntityID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// GetFollowerIDsBulk 批量拉取粉丝集合，供批量扇出去重复查
func (s *FollowerRepoImpl) GetFollowerIDsBulk(ctx context.Context, followedEntityIDs []uint64) (map[uint64][]uint64, error) {
	var rows []*model.Follower
	err := s.db.WithContext(ctx).
		Where("followed_entity_id IN ?", followedEntityIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint64][]uint64, len(followedEntityIDs))
	for _, row := range rows {
		result[row.FollowedEntityID] = append(result[row.FollowedEntityID], row.FollowerID)
	}
	return result, nil
}

func (s *FollowerRepoImpl) GetFollowerCount(ctx context.Context, followedEntityID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Follower{}).
		Where("followed_entity_id = ?", followedEntityID).
		Count(&count).Error
	return count, err
}
