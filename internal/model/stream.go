package model

import "time"

// Stream 活动的目的流：person/group/organization/resource 各有一条
type Stream struct {
	ID         uint64    `gorm:"primaryKey"`
	EntityType string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_stream_entity" json:"entity_type"`
	EntityID   uint64    `gorm:"not null;uniqueIndex:idx_stream_entity" json:"entity_id"`
	// 不带 default 标签：带默认值的 bool 在 Create 时 false 会被 gorm 当作未赋值改写
	IsPublic   bool      `gorm:"type:tinyint(1);not null" json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Stream) TableName() string {
	return "streams"
}
