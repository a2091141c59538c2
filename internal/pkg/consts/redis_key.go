package consts

// 缓存分区 key：ZSET，member 为 activity id，score 为 posted time
const (
	FeedEveryoneKey  = "feed:everyone"
	FeedFollowingKey = "feed:following:"
	FeedPersonKey    = "feed:person:"
	FeedGroupKey     = "feed:group:"
	FeedOrgKey       = "feed:org:"
	FeedLikedKey     = "feed:liked:"
	FeedStarredKey   = "feed:starred:"
)

const (
	// TrendContribKey ZSET，member 为 "tag|activityID"，score 为 posted time
	TrendContribKey = "trend:contrib:"
)

const (
	ActivityLikeCountKey    = "activity:like:count:"
	ActivityStarCountKey    = "activity:star:count:"
	ActivityCommentCountKey = "activity:comment:count:"
	ActivityLikersKey       = "activity:likers:"
	ActivityDirtyKey        = "activity:dirty"
)

const (
	EntityFollowerKey      = "entity:follower:"
	EntityFollowerCountKey = "entity:follower:count:"
	StreamByUniqueKey      = "stream:by_key:"
	EntityByStreamKey      = "entity:by_stream:"
)

const (
	StreamVisibilityLock = "lock:stream:visibility:"
)
