package kafka

import (
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"context"
)

// ActionParams 计数调整参数
type ActionParams struct {
	TargetID       uint64
	CountKeyPrefix string
	DirtyKey       string
	IsIncrement    bool
	NotifyFunc     func()
}

// ExecAction 缓存计数就地增减并标脏，等定时任务刷回数据库
// 缓存未命中时不补建，读路径回源时自然取到含本次变更的真值
func ExecAction(ctx context.Context, params ActionParams) {
	key := params.CountKeyPrefix + util.Uint64ToStr(params.TargetID)

	if _, err := redis.GetInt64(ctx, key); err == nil {
		delta := int64(1)
		if !params.IsIncrement {
			delta = -1
		}
		_ = redis.IncrBy(ctx, key, delta)
	}

	_ = redis.SAdd(ctx, params.DirtyKey, params.TargetID)

	if params.NotifyFunc != nil {
		params.NotifyFunc()
	}
}
