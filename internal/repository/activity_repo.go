package repository

import (
	"Streamline/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ActivityRepo interface {
	CreateActivity(ctx context.Context, activity *model.Activity, security *model.ActivitySecurity, tagIDs []uint64) error
	GetActivityByID(ctx context.Context, id uint64) (*model.Activity, error)
	GetActivityByIds(ctx context.Context, ids []uint64) ([]*model.Activity, error)
	GetActivityIDsByStreamID(ctx context.Context, streamID uint64, limit, offset int) ([]uint64, error)
	UpdateShowInStream(ctx context.Context, id uint64, show bool) error
	UpdateActivityCounts(ctx context.Context, id uint64, likes, comments int64) error
	BulkSoftDelete(ctx context.Context, ids []uint64) error
}

type ActivityRepoImpl struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &ActivityRepoImpl{db}
}

// CreateActivity 在一个事务内落地活动、安全描述与标签关联
func (s *ActivityRepoImpl) CreateActivity(ctx context.Context, activity *model.Activity, security *model.ActivitySecurity, tagIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(activity).Error; err != nil {
			return err
		}

		security.ActivityID = activity.ID
		security.UpdatedAt = time.Now()
		if err := tx.Create(security).Error; err != nil {
			return err
		}

		if len(tagIDs) > 0 {
			joins := make([]model.ActivityHashTag, 0, len(tagIDs))
			for _, tid := range tagIDs {
				joins = append(joins, model.ActivityHashTag{ActivityID: activity.ID, TagID: tid})
			}
			if err := tx.Create(&joins).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ActivityRepoImpl) GetActivityByID(ctx context.Context, id uint64) (*model.Activity, error) {
	var activity model.Activity
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&activity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *ActivityRepoImpl) GetActivityByIds(ctx context.Context, ids []uint64) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := s.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&activities).Error
	return activities, err
}

func (s *ActivityRepoImpl) GetActivityIDsByStreamID(ctx context.Context, streamID uint64, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Activity{}).
		Where("stream_id = ? AND is_deleted = ?", streamID, false).
		Order("posted_at DESC").
		Limit(limit).Offset(offset).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *ActivityRepoImpl) UpdateShowInStream(ctx context.Context, id uint64, show bool) error {
	return s.db.WithContext(ctx).Model(&model.Activity{}).
		Where("id = ?", id).
		Update("show_in_stream", show).Error
}

func (s *ActivityRepoImpl) UpdateActivityCounts(ctx context.Context, id uint64, likes, comments int64) error {
	return s.db.WithContext(ctx).Model(&model.Activity{}).
		Where("id = ?", id).
		Updates(map[string]any{"likes_count": likes, "comments_count": comments}).Error
}

// BulkSoftDelete 批量逻辑删除，安全描述一并删除
func (s *ActivityRepoImpl) BulkSoftDelete(ctx context.Context, ids []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Activity{}).
			Where("id IN ?", ids).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Where("activity_id IN ?", ids).
			Delete(&model.ActivitySecurity{}).Error
	})
}
