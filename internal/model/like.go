package model

import (
	"time"
)

type LikeRecord struct {
	PersonID   uint64    `gorm:"primaryKey" json:"person_id"`
	ActivityID uint64    `gorm:"primaryKey;index:idx_like_activity" json:"activity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (LikeRecord) TableName() string {
	return "likes"
}
