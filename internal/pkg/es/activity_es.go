package es

import "time"

// ActivityES 写入 ES 的活动文档，供全文检索使用
// 索引只接收通知，核心链路不等待写入完成
type ActivityES struct {
	ID            uint64        `json:"id"`
	ActorType     string        `json:"actor_type"`
	ActorID       uint64        `json:"actor_id"`
	StreamID      uint64        `json:"stream_id"`
	Verb          string        `json:"verb"`
	Content       string        `json:"content"`
	Tags          []string      `json:"tags"`
	IsPublic      bool          `json:"is_public"`
	LikesCount    int           `json:"likes_count"`
	CommentsCount int           `json:"comments_count"`
	PostedAt      time.Time     `json:"posted_at"`
	Sort          []interface{} `json:"-"`
}
