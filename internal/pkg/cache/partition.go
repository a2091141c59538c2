package cache

import (
	"Streamline/internal/pkg/util"
	"context"
	"errors"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// PartitionStore 缓存分区的统一读写层
// 分区即一个 ZSET：member 为 activity id，score 为 posted time，
// ZAddNX 保证同一分区内 id 至多出现一次，重复提交不改写首次 score
type PartitionStore struct {
	rdb *redisv9.Client
}

func NewPartitionStore(rdb *redisv9.Client) *PartitionStore {
	return &PartitionStore{rdb: rdb}
}

func (s *PartitionStore) Add(ctx context.Context, key string, activityID uint64, postedAt time.Time) error {
	return s.rdb.ZAddNX(ctx, key, redisv9.Z{
		Score:  float64(postedAt.UnixNano()) / float64(time.Second),
		Member: util.Uint64ToStr(activityID),
	}).Err()
}

// AddToAll 把一个活动写入多个分区，管道批量执行
func (s *PartitionStore) AddToAll(ctx context.Context, keys []string, activityID uint64, postedAt time.Time) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := s.rdb.Pipeline()
	member := util.Uint64ToStr(activityID)
	score := float64(postedAt.UnixNano()) / float64(time.Second)
	for _, key := range keys {
		pipe.ZAddNX(ctx, key, redisv9.Z{Score: score, Member: member})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *PartitionStore) Remove(ctx context.Context, key string, activityID uint64) error {
	return s.rdb.ZRem(ctx, key, util.Uint64ToStr(activityID)).Err()
}

// RemoveFromAll 从多个分区移除一批活动
func (s *PartitionStore) RemoveFromAll(ctx context.Context, keys []string, activityIDs []uint64) error {
	if len(keys) == 0 || len(activityIDs) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(activityIDs))
	for _, id := range activityIDs {
		members = append(members, util.Uint64ToStr(id))
	}

	pipe := s.rdb.Pipeline()
	for _, key := range keys {
		pipe.ZRem(ctx, key, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *PartitionStore) Contains(ctx context.Context, key string, activityID uint64) (bool, error) {
	_, err := s.rdb.ZScore(ctx, key, util.Uint64ToStr(activityID)).Result()
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Range 按 posted time 从新到旧分页读取分区
func (s *PartitionStore) Range(ctx context.Context, key string, offset, count int64) ([]uint64, error) {
	members, err := s.rdb.ZRevRange(ctx, key, offset, offset+count-1).Result()
	if err != nil {
		return nil, err
	}
	return util.StrSliceToUInt64Slice(members)
}

func (s *PartitionStore) Size(ctx context.Context, key string) (int64, error) {
	return s.rdb.ZCard(ctx, key).Result()
}

func (s *PartitionStore) Client() *redisv9.Client {
	return s.rdb
}
