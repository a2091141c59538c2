package model

import "time"

// HashTag Content 为规范化形式：保留开头 #，小写折叠，唯一索引保证并发创建幂等
type HashTag struct {
	ID        uint64 `gorm:"primaryKey"`
	Content   string `gorm:"type:varchar(64);not null;uniqueIndex:idx_hashtag_content"`
	CreatedAt time.Time
}

func (HashTag) TableName() string {
	return "hashtags"
}
