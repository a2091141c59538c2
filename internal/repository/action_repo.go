package repository

import (
	"Streamline/internal/model"
	"context"

	"gorm.io/gorm"
)

// ActionRepo 点赞/收藏/评论的持久层，删除活动时级联清理
type ActionRepo interface {
	CreateLike(ctx context.Context, like *model.LikeRecord) error
	DeleteLike(ctx context.Context, personID, activityID uint64) error
	CheckLikeExists(ctx context.Context, personID, activityID uint64) (bool, error)
	GetLikerIDs(ctx context.Context, activityID uint64) ([]uint64, error)
	GetLikedActivityIDs(ctx context.Context, personID uint64, limit, offset int) ([]uint64, error)
	GetLikeCountByActivityID(ctx context.Context, activityID uint64) (int64, error)

	CreateStar(ctx context.Context, star *model.StarRecord) error
	DeleteStar(ctx context.Context, personID, activityID uint64) error
	CheckStarExists(ctx context.Context, personID, activityID uint64) (bool, error)
	GetStarrerIDs(ctx context.Context, activityID uint64) ([]uint64, error)
	GetStarredActivityIDs(ctx context.Context, personID uint64, limit, offset int) ([]uint64, error)
	GetStarCountByActivityID(ctx context.Context, activityID uint64) (int64, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentCountByActivityID(ctx context.Context, activityID uint64) (int64, error)

	CascadeDeleteByActivityIDs(ctx context.Context, activityIDs []uint64) error
}

type ActionRepoImpl struct {
	db *gorm.DB
}

func NewActionRepo(db *gorm.DB) ActionRepo {
	return &ActionRepoImpl{db}
}

func (s *ActionRepoImpl) CreateLike(ctx context.Context, like *model.LikeRecord) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *ActionRepoImpl) DeleteLike(ctx context.Context, personID, activityID uint64) error {
	return s.db.WithContext(ctx).
		Where("person_id = ? AND activity_id = ?", personID, activityID).
		Delete(&model.LikeRecord{}).Error
}

func (s *ActionRepoImpl) CheckLikeExists(ctx context.Context, personID, activityID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LikeRecord{}).
		Where("person_id = ? AND activity_id = ?", personID, activityID).
		Count(&count).Error
	return count > 0, err
}

func (s *ActionRepoImpl) GetLikerIDs(ctx context.Context, activityID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.LikeRecord{}).
		Where("activity_id = ?", activityID).
		Order("created_at DESC").
		Pluck("person_id", &ids).Error
	return ids, err
}

func (s *ActionRepoImpl) GetLikedActivityIDs(ctx context.Context, personID uint64, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.LikeRecord{}).
		Where("person_id = ?", personID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("activity_id", &ids).Error
	return ids, err
}

func (s *ActionRepoImpl) GetLikeCountByActivityID(ctx context.Context, activityID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LikeRecord{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	return count, err
}

func (s *ActionRepoImpl) CreateStar(ctx context.Context, star *model.StarRecord) error {
	return s.db.WithContext(ctx).Create(star).Error
}

func (s *ActionRepoImpl) DeleteStar(ctx context.Context, personID, activityID uint64) error {
	return s.db.WithContext(ctx).
		Where("person_id = ? AND activity_id = ?", personID, activityID).
		Delete(&model.StarRecord{}).Error
}

func (s *ActionRepoImpl) CheckStarExists(ctx context.Context, personID, activityID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.StarRecord{}).
		Where("person_id = ? AND activity_id = ?", personID, activityID).
		Count(&count).Error
	return count > 0, err
}

func (s *ActionRepoImpl) GetStarrerIDs(ctx context.Context, activityID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.StarRecord{}).
		Where("activity_id = ?", activityID).
		Order("created_at DESC").
		Pluck("person_id", &ids).Error
	return ids, err
}

func (s *ActionRepoImpl) GetStarredActivityIDs(ctx context.Context, personID uint64, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.StarRecord{}).
		Where("person_id = ?", personID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("activity_id", &ids).Error
	return ids, err
}

func (s *ActionRepoImpl) GetStarCountByActivityID(ctx context.Context, activityID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.StarRecord{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	return count, err
}

func (s *ActionRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *ActionRepoImpl) GetCommentCountByActivityID(ctx context.Context, activityID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("activity_id = ? AND is_deleted = ?", activityID, false).
		Count(&count).Error
	return count, err
}

// CascadeDeleteByActivityIDs 删除活动时清掉其点赞、收藏与评论
func (s *ActionRepoImpl) CascadeDeleteByActivityIDs(ctx context.Context, activityIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id IN ?", activityIDs).Delete(&model.LikeRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id IN ?", activityIDs).Delete(&model.StarRecord{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).
			Where("activity_id IN ?", activityIDs).
			Update("is_deleted", true).Error
	})
}
