package repository

import (
	"Streamline/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type StreamRepo interface {
	CreateStream(ctx context.Context, stream *model.Stream) error
	GetStreamByID(ctx context.Context, id uint64) (*model.Stream, error)
	GetStreamByEntity(ctx context.Context, entityType string, entityID uint64) (*model.Stream, error)
	UpdateStreamVisibility(ctx context.Context, id uint64, isPublic bool) error
}

type StreamRepoImpl struct {
	db *gorm.DB
}

func NewStreamRepo(db *gorm.DB) StreamRepo {
	return &StreamRepoImpl{db}
}

func (s *StreamRepoImpl) CreateStream(ctx context.Context, stream *model.Stream) error {
	return s.db.WithContext(ctx).Create(stream).Error
}

func (s *StreamRepoImpl) GetStreamByID(ctx context.Context, id uint64) (*model.Stream, error) {
	var stream model.Stream
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&stream).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (s *StreamRepoImpl) GetStreamByEntity(ctx context.Context, entityType string, entityID uint64) (*model.Stream, error) {
	var stream model.Stream
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&stream).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (s *StreamRepoImpl) UpdateStreamVisibility(ctx context.Context, id uint64, isPublic bool) error {
	return s.db.WithContext(ctx).Model(&model.Stream{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_public": isPublic, "updated_at": time.Now()}).Error
}
