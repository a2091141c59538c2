package service

import (
	"Streamline/internal/api/config"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// TrendingAggregator 按作用域维护窗口内的话题热度
// 贡献以 "tag|activityID" 为成员写入 ZSET，score 为发布时间，
// 同一活动对同一作用域的同一话题天然只计一次
type TrendingAggregator interface {
	Record(ctx context.Context, scopeKeys []string, tags []string, activityID uint64, postedAt time.Time) error
	Remove(ctx context.Context, scopeKeys []string, tags []string, activityID uint64) error
	TopHashtags(ctx context.Context, scopeKey string, windowHours int, limit int) ([]string, error)
	SweepExpired(ctx context.Context) error
}

type TrendingAggregatorImpl struct {
	rdb *redisv9.Client
}

func NewTrendingAggregator(rdb *redisv9.Client) TrendingAggregator {
	return &TrendingAggregatorImpl{rdb: rdb}
}

// TrendScopeKey 作用域键，如 "group:4"、"org:2"
func TrendScopeKey(entityType string, entityID uint64) string {
	return entityType + ":" + util.Uint64ToStr(entityID)
}

func contribMember(tag string, activityID uint64) string {
	return tag + "|" + util.Uint64ToStr(activityID)
}

func parseContribMember(member string) (tag string, ok bool) {
	idx := strings.LastIndex(member, "|")
	if idx <= 0 {
		return "", false
	}
	return member[:idx], true
}

func (s *TrendingAggregatorImpl) Record(ctx context.Context, scopeKeys []string, tags []string, activityID uint64, postedAt time.Time) error {
	if len(scopeKeys) == 0 || len(tags) == 0 {
		return nil
	}
	for _, tag := range tags {
		if util.NormalizeTag(tag) != tag || len(tag) <= 1 {
			return ErrHashtagInvalid
		}
	}

	score := float64(postedAt.Unix())
	pipe := s.rdb.Pipeline()
	for _, scopeKey := range scopeKeys {
		key := consts.TrendContribKey + scopeKey
		for _, tag := range tags {
			pipe.ZAddNX(ctx, key, redisv9.Z{Score: score, Member: contribMember(tag, activityID)})
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *TrendingAggregatorImpl) Remove(ctx context.Context, scopeKeys []string, tags []string, activityID uint64) error {
	if len(scopeKeys) == 0 || len(tags) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(tags))
	for _, tag := range tags {
		members = append(members, contribMember(tag, activityID))
	}

	pipe := s.rdb.Pipeline()
	for _, scopeKey := range scopeKeys {
		pipe.ZRem(ctx, consts.TrendContribKey+scopeKey, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

type tagRank struct {
	tag    string
	count  int
	latest float64
}

func (s *TrendingAggregatorImpl) TopHashtags(ctx context.Context, scopeKey string, windowHours int, limit int) ([]string, error) {
	if windowHours <= 0 {
		windowHours = config.Cfg.Trend.DefaultWindowHours
	}
	if windowHours > config.Cfg.Trend.MaxWindowHours {
		windowHours = config.Cfg.Trend.MaxWindowHours
	}
	if limit <= 0 {
		return nil, nil
	}

	min := strconv.FormatInt(time.Now().Add(-time.Duration(windowHours)*time.Hour).Unix(), 10)
	contribs, err := redis.ZRangeByScoreWithScores(ctx, consts.TrendContribKey+scopeKey, min, "+inf")
	if err != nil {
		return nil, err
	}

	counts := make(map[string]*tagRank)
	for _, z := range contribs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		tag, ok := parseContribMember(member)
		if !ok {
			continue
		}
		rank, exists := counts[tag]
		if !exists {
			rank = &tagRank{tag: tag}
			counts[tag] = rank
		}
		rank.count++
		if z.Score > rank.latest {
			rank.latest = z.Score
		}
	}

	ranks := make([]*tagRank, 0, len(counts))
	for _, rank := range counts {
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].count != ranks[j].count {
			return ranks[i].count > ranks[j].count
		}
		if ranks[i].latest != ranks[j].latest {
			return ranks[i].latest > ranks[j].latest
		}
		return ranks[i].tag < ranks[j].tag
	})

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	result := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, rank.tag)
	}
	return result, nil
}

// SweepExpired 清理超出最大窗口的贡献，限制存储规模
func (s *TrendingAggregatorImpl) SweepExpired(ctx context.Context) error {
	max := fmt.Sprintf("(%d", time.Now().Add(-time.Duration(config.Cfg.Trend.MaxWindowHours)*time.Hour).Unix())

	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, consts.TrendContribKey+"*", 200).Result()
		if err != nil {
			return err
		}
		for _, key := range keys {
			if _, err := redis.ZRemRangeByScore(ctx, key, "-inf", max); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
