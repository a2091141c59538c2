package dto

// FollowReq 关注/取关请求
type FollowReq struct {
	EntityID uint64 `json:"entity_id" binding:"required"`
	Action   int    `json:"action" binding:"required,oneof=1 2"` // 1:关注, 2:取关
}

// FollowStateDTO 关注状态
type FollowStateDTO struct {
	FollowerCount int64 `json:"follower_count"`
	IsFollowing   bool  `json:"is_following"`
}
