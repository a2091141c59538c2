package repository

import (
	"Streamline/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// EntityRepo 按实体类型做唯一键与 stream 的查找
type EntityRepo interface {
	GetPersonByID(ctx context.Context, id uint64) (*model.Person, error)
	GetPersonByUniqueKey(ctx context.Context, uniqueKey string) (*model.Person, error)
	GetGroupByID(ctx context.Context, id uint64) (*model.DomainGroup, error)
	GetGroupByUniqueKey(ctx context.Context, uniqueKey string) (*model.DomainGroup, error)
	GetOrgByID(ctx context.Context, id uint64) (*model.Organization, error)
	GetOrgByUniqueKey(ctx context.Context, uniqueKey string) (*model.Organization, error)
	GetGroupMemberIDs(ctx context.Context, groupID uint64) ([]uint64, error)
	CheckGroupMember(ctx context.Context, groupID, personID uint64) (bool, error)
}

type EntityRepoImpl struct {
	db *gorm.DB
}

func NewEntityRepo(db *gorm.DB) EntityRepo {
	return &EntityRepoImpl{db}
}

func (s *EntityRepoImpl) GetPersonByID(ctx context.Context, id uint64) (*model.Person, error) {
	var person model.Person
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *EntityRepoImpl) GetPersonByUniqueKey(ctx context.Context, uniqueKey string) (*model.Person, error) {
	var person model.Person
	err := s.db.WithContext(ctx).
		Where("unique_key = ? AND is_deleted = ?", uniqueKey, false).
		First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *EntityRepoImpl) GetGroupByID(ctx context.Context, id uint64) (*model.DomainGroup, error) {
	var group model.DomainGroup
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *EntityRepoImpl) GetGroupByUniqueKey(ctx context.Context, uniqueKey string) (*model.DomainGroup, error) {
	var group model.DomainGroup
	err := s.db.WithContext(ctx).
		Where("unique_key = ? AND is_deleted = ?", uniqueKey, false).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *EntityRepoImpl) GetOrgByID(ctx context.Context, id uint64) (*model.Organization, error) {
	var org model.Organization
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *EntityRepoImpl) GetOrgByUniqueKey(ctx context.Context, uniqueKey string) (*model.Organization, error) {
	var org model.Organization
	err := s.db.WithContext(ctx).
		Where("unique_key = ? AND is_deleted = ?", uniqueKey, false).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *EntityRepoImpl) GetGroupMemberIDs(ctx context.Context, groupID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("person_id", &ids).Error
	return ids, err
}

func (s *EntityRepoImpl) CheckGroupMember(ctx context.Context, groupID, personID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND person_id = ?", groupID, personID).
		Count(&count).Error
	return count > 0, err
}
