package model

import "time"

type Person struct {
	ID          uint64    `gorm:"primaryKey"`
	UniqueKey   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_person_key" json:"unique_key"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	StreamID    uint64    `gorm:"not null;index:idx_person_stream" json:"stream_id"`
	IsDeleted   bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Person) TableName() string {
	return "people"
}
