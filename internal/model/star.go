package model

import (
	"time"
)

type StarRecord struct {
	PersonID   uint64    `gorm:"primaryKey" json:"person_id"`
	ActivityID uint64    `gorm:"primaryKey;index:idx_star_activity" json:"activity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (StarRecord) TableName() string {
	return "stars"
}
