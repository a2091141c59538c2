package dto

// FeedDTO 分区读出的活动列表
type FeedDTO struct {
	List    []*ActivityDTO `json:"list"`
	HasMore bool           `json:"has_more"`
}

// TrendDTO 热门话题榜
type TrendDTO struct {
	ScopeKey string   `json:"scope_key"`
	Tags     []string `json:"tags"`
}

// FeedQueryDTO 分页查询参数
type FeedQueryDTO struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size" binding:"omitempty,max=100"`
}

// TrendQueryDTO 热门话题查询参数
type TrendQueryDTO struct {
	EntityType  string `form:"entity_type" binding:"required,oneof=person group organization"`
	EntityID    uint64 `form:"entity_id" binding:"required"`
	WindowHours int    `form:"window_hours"`
	Limit       int    `form:"limit" binding:"omitempty,max=50"`
}

// SearchQueryDTO 全文检索参数
type SearchQueryDTO struct {
	Query    string `form:"q" binding:"required,min=1,max=200"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}
