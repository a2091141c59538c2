package repository

import (
	"Streamline/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// MaxOrgDepth 组织树允许的最大深度，防止脏数据成环导致遍历不收敛
const MaxOrgDepth = 32

type OrgRepo interface {
	GetAncestorOrgIDs(ctx context.Context, orgID uint64) ([]uint64, error)
	GetOrgStreamIDs(ctx context.Context, orgIDs []uint64) (map[uint64]uint64, error)
}

type OrgRepoImpl struct {
	db *gorm.DB
}

func NewOrgRepo(db *gorm.DB) OrgRepo {
	return &OrgRepoImpl{db}
}

// GetAncestorOrgIDs 自下而上遍历父组织链，返回不含自身的祖先 id 列表（由近及远）
// 显式有界遍历，带访问标记，成环或超深直接截断
func (s *OrgRepoImpl) GetAncestorOrgIDs(ctx context.Context, orgID uint64) ([]uint64, error) {
	visited := map[uint64]struct{}{orgID: {}}
	var ancestors []uint64

	current := orgID
	for depth := 0; depth < MaxOrgDepth; depth++ {
		var org model.Organization
		err := s.db.WithContext(ctx).
			Select("id", "parent_org_id").
			Where("id = ? AND is_deleted = ?", current, false).
			First(&org).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}

		if org.ParentOrgID == 0 {
			break
		}
		if _, seen := visited[org.ParentOrgID]; seen {
			break
		}

		visited[org.ParentOrgID] = struct{}{}
		ancestors = append(ancestors, org.ParentOrgID)
		current = org.ParentOrgID
	}

	return ancestors, nil
}

func (s *OrgRepoImpl) GetOrgStreamIDs(ctx context.Context, orgIDs []uint64) (map[uint64]uint64, error) {
	var orgs []*model.Organization
	err := s.db.WithContext(ctx).
		Select("id", "stream_id").
		Where("id IN ? AND is_deleted = ?", orgIDs, false).
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint64]uint64, len(orgs))
	for _, org := range orgs {
		result[org.ID] = org.StreamID
	}
	return result, nil
}
