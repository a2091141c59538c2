package model

import "time"

// ActivitySecurity 活动安全描述，冗余自 Activity + Stream，流可见性变更时重建
type ActivitySecurity struct {
	ActivityID   uint64    `gorm:"primaryKey" json:"activity_id"`
	StreamID     uint64    `gorm:"not null;index:idx_sec_stream_id" json:"stream_id"`
	DestEntityID uint64    `gorm:"not null" json:"dest_entity_id"`
	IsPublic     bool      `gorm:"type:tinyint(1);not null" json:"is_public"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ActivitySecurity) TableName() string {
	return "activity_security"
}
