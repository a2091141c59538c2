package consts

// 实体类型
const (
	EntityPerson       = "person"
	EntityGroup        = "group"
	EntityOrganization = "organization"
	EntityResource     = "resource"
)

// Canal 消息类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

const (
	// MaxFollowerCacheSize 粉丝缓存 ZSET 上限
	MaxFollowerCacheSize = 1000

	// MaxTrendWindowHours 趋势贡献保留的最大窗口，超过该窗口的贡献由定时任务清理
	MaxTrendWindowHours = 24 * 7

	// DefaultTrendWindowHours 未指定窗口时的默认值
	DefaultTrendWindowHours = 24
)
