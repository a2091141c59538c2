package model

import "time"

// Follower 关注关系：FollowerID 关注了 FollowedEntityID（person 或 group）
type Follower struct {
	FollowerID       uint64    `gorm:"primaryKey" json:"follower_id"`
	FollowedEntityID uint64    `gorm:"primaryKey;index:idx_followed_entity" json:"followed_entity_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Follower) TableName() string {
	return "followers"
}
