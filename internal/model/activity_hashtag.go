package model

type ActivityHashTag struct {
	ActivityID uint64 `gorm:"primaryKey" json:"activity_id"`
	TagID      uint64 `gorm:"primaryKey;index:idx_aht_tag_id" json:"tag_id"`
}

func (ActivityHashTag) TableName() string {
	return "activity_hashtags"
}
