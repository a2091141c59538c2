package model

import "time"

type DomainGroup struct {
	ID          uint64    `gorm:"primaryKey"`
	UniqueKey   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_group_key" json:"unique_key"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	StreamID    uint64    `gorm:"not null;index:idx_group_stream" json:"stream_id"`
	OrgID       uint64    `gorm:"not null;index:idx_group_org" json:"org_id"`
	IsDeleted   bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DomainGroup) TableName() string {
	return "domain_groups"
}
