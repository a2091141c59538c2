package model

import (
	"time"
)

type Activity struct {
	ID              uint64    `gorm:"primaryKey"`
	ActorType       string    `gorm:"type:varchar(16);not null" json:"actor_type"`
	ActorID         uint64    `gorm:"not null;index:idx_actor_id" json:"actor_id"`
	OriginalActorID uint64    `gorm:"not null;default:0" json:"original_actor_id"` // 转发时为原作者，否则为 0
	StreamID        uint64    `gorm:"not null;index:idx_stream_id" json:"stream_id"`
	Verb            string    `gorm:"type:varchar(32);not null" json:"verb"`
	BaseObjectType  string    `gorm:"type:varchar(32);not null" json:"base_object_type"`
	Content         string    `gorm:"not null" json:"content"`
	ShowInStream    bool      `gorm:"type:tinyint(1);not null" json:"show_in_stream"`
	Flagged         bool      `gorm:"type:tinyint(1);not null;default:0" json:"flagged"`
	LikesCount      int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount   int       `gorm:"not null;default:0" json:"comments_count"`
	IsDeleted       bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	PostedAt        time.Time `gorm:"not null;index:idx_posted_at" json:"posted_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 关联关系
	Stream Stream `gorm:"foreignKey:StreamID;references:ID"`
}

func (Activity) TableName() string {
	return "activities"
}
