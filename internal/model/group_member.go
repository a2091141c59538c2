package model

import "time"

type GroupMember struct {
	PersonID      uint64    `gorm:"primaryKey" json:"person_id"`
	GroupID       uint64    `gorm:"primaryKey;index:idx_member_group" json:"group_id"`
	IsCoordinator bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_coordinator"`
	CreatedAt     time.Time `json:"created_at"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
