package dto

// StreamVisibilityDTO 流可见性翻转请求
type StreamVisibilityDTO struct {
	StreamID uint64 `json:"stream_id" binding:"required"`
	IsPublic *bool  `json:"is_public" binding:"required"`
}

// StreamResolveReq 按实体唯一键查流的请求参数
type StreamResolveReq struct {
	EntityType string `form:"entity_type" binding:"required,oneof=person group organization resource"`
	UniqueKey  string `form:"unique_key" binding:"required,max=128"`
}

// StreamResolveDTO 实体到流的解析结果
type StreamResolveDTO struct {
	StreamID   uint64 `json:"stream_id"`
	EntityType string `json:"entity_type"`
	EntityID   uint64 `json:"entity_id"`
}
