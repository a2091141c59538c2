package dto

// ActivityActionReq 点赞/收藏通用请求
type ActivityActionReq struct {
	ActivityID uint64 `json:"activity_id" binding:"required"`
	Action     int    `json:"action" binding:"required,oneof=1 2"` // 1:执行, 2:取消
}

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	ActivityID uint64 `json:"activity_id" binding:"required"`
	Content    string `json:"content" binding:"required,max=1000"`
}

// ActivityActionStateDTO 活动交互状态数据
type ActivityActionStateDTO struct {
	LikeCount    int64 `json:"like_count"`
	StarCount    int64 `json:"star_count"`
	CommentCount int64 `json:"comment_count"`
	IsLiked      bool  `json:"is_liked"`
	IsStarred    bool  `json:"is_starred"`
}
