package model

import (
	"time"
)

type Comment struct {
	ID         uint64    `gorm:"primaryKey"`
	ActivityID uint64    `gorm:"not null;index:idx_comment_activity" json:"activity_id"`
	PersonID   uint64    `gorm:"not null" json:"person_id"`
	Body       string    `gorm:"not null" json:"body"`
	IsDeleted  bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
