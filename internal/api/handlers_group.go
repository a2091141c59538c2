package api

import "Streamline/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ActivityHandler *handler.ActivityHandler
	FeedHandler     *handler.FeedHandler
	ActionHandler   *handler.ActionHandler
	FollowHandler   *handler.FollowHandler
	StreamHandler   *handler.StreamHandler
	OpsHandler      *handler.OpsHandler
}
