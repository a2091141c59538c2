package model

import "time"

// Organization 支持父子层级，ParentOrgID 为 0 表示根组织
type Organization struct {
	ID          uint64    `gorm:"primaryKey"`
	UniqueKey   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_org_key" json:"unique_key"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	StreamID    uint64    `gorm:"not null;index:idx_org_stream" json:"stream_id"`
	ParentOrgID uint64    `gorm:"not null;default:0;index:idx_org_parent" json:"parent_org_id"`
	IsDeleted   bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}
