package dto

// ActivityCreateDTO 发布活动请求
type ActivityCreateDTO struct {
	Verb             string `json:"verb" binding:"required" validate:"min=1,max=32"`
	BaseObjectType   string `json:"base_object_type" binding:"required" validate:"min=1,max=32"`
	Content          string `json:"content" binding:"required" validate:"min=1,max=5000"`
	StreamEntityType string `json:"stream_entity_type" binding:"required,oneof=person group organization resource"`
	StreamEntityID   uint64 `json:"stream_entity_id" binding:"required"`
	OriginalActorID  uint64 `json:"original_actor_id"` // 转发时为原作者，否则为 0
	ShowInStream     *bool  `json:"show_in_stream"`
}

// ActivityDTO 活动返回详情
type ActivityDTO struct {
	ID              uint64   `json:"id"`
	ActorType       string   `json:"actor_type"`
	ActorID         uint64   `json:"actor_id"`
	OriginalActorID uint64   `json:"original_actor_id"`
	StreamID        uint64   `json:"stream_id"`
	Verb            string   `json:"verb"`
	BaseObjectType  string   `json:"base_object_type"`
	Content         string   `json:"content"`
	Tags            []string `json:"tags"`
	ShowInStream    bool     `json:"show_in_stream"`
	LikesCount      int64    `json:"likes_count"`
	StarsCount      int64    `json:"stars_count"`
	CommentsCount   int64    `json:"comments_count"`
	IsLiked         bool     `json:"is_liked"`
	IsStarred       bool     `json:"is_starred"`
	PostedAt        string   `json:"posted_at"`
}

// ActivityHideDTO 调整活动在流中的展示状态
type ActivityHideDTO struct {
	Show *bool `json:"show" binding:"required"`
}

// ActivityDeleteDTO 批量删除请求
type ActivityDeleteDTO struct {
	ActivityIDs []uint64 `json:"activity_ids" binding:"required,min=1,max=500"`
}
