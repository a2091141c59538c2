package repository

import (
	"Streamline/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SecurityRepo interface {
	UpsertSecurity(ctx context.Context, security *model.ActivitySecurity) error
	GetByActivityIDs(ctx context.Context, activityIDs []uint64) ([]*model.ActivitySecurity, error)
	GetByStreamID(ctx context.Context, streamID uint64, limit, offset int) ([]*model.ActivitySecurity, error)
	RebuildForStream(ctx context.Context, streamID uint64, isPublic bool) error
}

type SecurityRepoImpl struct {
	db *gorm.DB
}

func NewSecurityRepo(db *gorm.DB) SecurityRepo {
	return &SecurityRepoImpl{db}
}

func (s *SecurityRepoImpl) UpsertSecurity(ctx context.Context, security *model.ActivitySecurity) error {
	security.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stream_id", "dest_entity_id", "is_public", "updated_at"}),
		}).
		Create(security).Error
}

func (s *SecurityRepoImpl) GetByActivityIDs(ctx context.Context, activityIDs []uint64) ([]*model.ActivitySecurity, error) {
	var descriptors []*model.ActivitySecurity
	err := s.db.WithContext(ctx).
		Where("activity_id IN ?", activityIDs).
		Find(&descriptors).Error
	return descriptors, err
}

func (s *SecurityRepoImpl) GetByStreamID(ctx context.Context, streamID uint64, limit, offset int) ([]*model.ActivitySecurity, error) {
	var descriptors []*model.ActivitySecurity
	err := s.db.WithContext(ctx).
		Where("stream_id = ?", streamID).
		Order("activity_id").
		Limit(limit).Offset(offset).
		Find(&descriptors).Error
	return descriptors, err
}

// RebuildForStream 流可见性变更后，整流重建安全描述
func (s *SecurityRepoImpl) RebuildForStream(ctx context.Context, streamID uint64, isPublic bool) error {
	return s.db.WithContext(ctx).Model(&model.ActivitySecurity{}).
		Where("stream_id = ?", streamID).
		Updates(map[string]any{"is_public": isPublic, "updated_at": time.Now()}).Error
}
