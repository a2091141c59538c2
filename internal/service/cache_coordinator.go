package service

import (
	"Streamline/internal/api/config"
	"Streamline/internal/model"
	"Streamline/internal/pkg/cache"
	"Streamline/internal/pkg/consts"
	"Streamline/internal/pkg/es"
	"Streamline/internal/pkg/mongo"
	"Streamline/internal/pkg/redis"
	"Streamline/internal/pkg/util"
	"Streamline/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// CacheConsistencyCoordinator 缓存一致性协调器
// 所有分区写入都经过这里：创建扇出、删除回收、可见性翻转
type CacheConsistencyCoordinator interface {
	ApplyCreate(ctx context.Context, activity *model.Activity, tags []string) error
	ApplyDelete(ctx context.Context, activityIDs []uint64) error
	ApplyHide(ctx context.Context, activityID uint64, show bool) error
	ApplyVisibilityChange(ctx context.Context, streamID uint64, isPublic bool) error
}

type CacheCoordinatorImpl struct {
	securityFilter SecurityFilter
	fanoutResolver FanoutResolver
	trending       TrendingAggregator
	partitions     *cache.PartitionStore
	activityRepo   repository.ActivityRepo
	securityRepo   repository.SecurityRepo
	streamRepo     repository.StreamRepo
	hashtagRepo    repository.HashTagRepo
	actionRepo     repository.ActionRepo
	orgRepo        repository.OrgRepo
	entityRepo     repository.EntityRepo
	failureRepo    mongo.FanoutFailureRepo
	esRepo         es.ActivityRepo
}

func NewCacheCoordinator(
	securityFilter SecurityFilter,
	fanoutResolver FanoutResolver,
	trending TrendingAggregator,
	partitions *cache.PartitionStore,
	activityRepo repository.ActivityRepo,
	securityRepo repository.SecurityRepo,
	streamRepo repository.StreamRepo,
	hashtagRepo repository.HashTagRepo,
	actionRepo repository.ActionRepo,
	orgRepo repository.OrgRepo,
	entityRepo repository.EntityRepo,
	failureRepo mongo.FanoutFailureRepo,
	esRepo es.ActivityRepo,
) CacheConsistencyCoordinator {
	return &CacheCoordinatorImpl{
		securityFilter: securityFilter,
		fanoutResolver: fanoutResolver,
		trending:       trending,
		partitions:     partitions,
		activityRepo:   activityRepo,
		securityRepo:   securityRepo,
		streamRepo:     streamRepo,
		hashtagRepo:    hashtagRepo,
		actionRepo:     actionRepo,
		orgRepo:        orgRepo,
		entityRepo:     entityRepo,
		failureRepo:    failureRepo,
		esRepo:         esRepo,
	}
}

// ApplyCreate 分类 -> 扇出 -> 分区写入 -> 话题计数
// 分区写入失败整体重试（ZAddNX 幂等），重试耗尽落运维记录，
// 内容仍可按 id 访问，不向用户暴露失败
func (s *CacheCoordinatorImpl) ApplyCreate(ctx context.Context, activity *model.Activity, tags []string) error {
	if activity == nil || activity.ID == 0 {
		return ErrParamInvalid
	}

	descriptor, err := s.loadDescriptor(ctx, activity)
	if err != nil {
		return err
	}

	classification, err := s.securityFilter.Classify(ctx, []*model.ActivitySecurity{descriptor})
	if err != nil {
		return err
	}

	// 目的实体已删除的私有活动不可见，不做任何扇出
	if anchor, isPrivate := classification.Private[activity.ID]; isPrivate && anchor == 0 {
		return nil
	}

	plan, err := s.fanoutResolver.Resolve(ctx, []*model.Activity{activity})
	if err != nil {
		return err
	}

	entry := plan.Entries[activity.ID]
	if entry != nil && len(entry.Keys) > 0 {
		s.addWithRetry(ctx, entry.Keys, activity.ID, activity.PostedAt, "create")
	}

	if len(tags) > 0 {
		stream, err := s.streamRepo.GetStreamByID(ctx, activity.StreamID)
		if err != nil {
			return err
		}
		if stream != nil {
			scopes, err := s.trendScopeKeys(ctx, stream)
			if err != nil {
				return err
			}
			if err = s.trending.Record(ctx, scopes, tags, activity.ID, activity.PostedAt); err != nil {
				return err
			}
		}
	}

	s.notifyIndexAsync(activity, tags, descriptor.IsPublic)
	return nil
}

// ApplyDelete 按当前关注图解算扇出集合并回收分区成员
// 分批执行，批与批之间可中断重试，单批内全部操作幂等
func (s *CacheCoordinatorImpl) ApplyDelete(ctx context.Context, activityIDs []uint64) error {
	if len(activityIDs) == 0 {
		return nil
	}

	batchSize := config.Cfg.Fanout.DeleteBatch
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(activityIDs); start += batchSize {
		end := start + batchSize
		if end > len(activityIDs) {
			end = len(activityIDs)
		}
		if err := s.deleteBatch(ctx, activityIDs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheCoordinatorImpl) deleteBatch(ctx context.Context, batchIDs []uint64) error {
	activities, err := s.activityRepo.GetActivityByIds(ctx, batchIDs)
	if err != nil {
		return err
	}
	if len(activities) == 0 {
		return nil
	}

	presentIDs := make([]uint64, 0, len(activities))
	for _, activity := range activities {
		presentIDs = append(presentIDs, activity.ID)
	}

	plan, err := s.fanoutResolver.Resolve(ctx, activities)
	if err != nil {
		return err
	}

	keySet := make(map[string]struct{})
	for _, key := range plan.AllKeys() {
		keySet[key] = struct{}{}
	}

	// 点赞/收藏者的个人分区也要回收
	for _, id := range presentIDs {
		likerIDs, err := s.actionRepo.GetLikerIDs(ctx, id)
		if err != nil {
			return err
		}
		for _, pid := range likerIDs {
			keySet[consts.FeedLikedKey+util.Uint64ToStr(pid)] = struct{}{}
		}
		starrerIDs, err := s.actionRepo.GetStarrerIDs(ctx, id)
		if err != nil {
			return err
		}
		for _, pid := range starrerIDs {
			keySet[consts.FeedStarredKey+util.Uint64ToStr(pid)] = struct{}{}
		}
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	s.removeWithRetry(ctx, keys, presentIDs, "delete")

	if err = s.removeTrendContribs(ctx, activities); err != nil {
		return err
	}

	if err = s.actionRepo.CascadeDeleteByActivityIDs(ctx, presentIDs); err != nil {
		return err
	}
	if err = s.hashtagRepo.DeleteActivityTags(ctx, presentIDs); err != nil {
		return err
	}
	if err = s.activityRepo.BulkSoftDelete(ctx, presentIDs); err != nil {
		return err
	}

	s.cleanupCountKeys(ctx, presentIDs)
	s.notifyDeleteAsync(presentIDs)
	return nil
}

func (s *CacheCoordinatorImpl) removeTrendContribs(ctx context.Context, activities []*model.Activity) error {
	ids := make([]uint64, 0, len(activities))
	for _, activity := range activities {
		ids = append(ids, activity.ID)
	}
	tagsMap, err := s.hashtagRepo.GetTagsByActivityIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(tagsMap) == 0 {
		return nil
	}

	streamCache := make(map[uint64][]string)
	for _, activity := range activities {
		tags := tagsMap[activity.ID]
		if len(tags) == 0 {
			continue
		}
		scopes, ok := streamCache[activity.StreamID]
		if !ok {
			stream, err := s.streamRepo.GetStreamByID(ctx, activity.StreamID)
			if err != nil {
				return err
			}
			if stream == nil {
				streamCache[activity.StreamID] = nil
				continue
			}
			scopes, err = s.trendScopeKeys(ctx, stream)
			if err != nil {
				return err
			}
			streamCache[activity.StreamID] = scopes
		}
		if len(scopes) == 0 {
			continue
		}
		if err = s.trending.Remove(ctx, scopes, tags, activity.ID); err != nil {
			return err
		}
	}
	return nil
}

// ApplyHide 隐藏是只回收分区成员的删除：记录保留，按 id 仍可访问
// 恢复展示等价于重新走一遍创建扇出
func (s *CacheCoordinatorImpl) ApplyHide(ctx context.Context, activityID uint64, show bool) error {
	activity, err := s.activityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return ErrActivityNotFound
	}
	if activity.ShowInStream == show {
		return nil
	}

	if err = s.activityRepo.UpdateShowInStream(ctx, activityID, show); err != nil {
		return err
	}
	activity.ShowInStream = show

	tagsMap, err := s.hashtagRepo.GetTagsByActivityIDs(ctx, []uint64{activityID})
	if err != nil {
		return err
	}
	tags := tagsMap[activityID]

	if show {
		return s.ApplyCreate(ctx, activity, tags)
	}

	// 解算时按可见计算，才能得到需要回收的分区集合
	activity.ShowInStream = true
	plan, err := s.fanoutResolver.Resolve(ctx, []*model.Activity{activity})
	if err != nil {
		return err
	}
	activity.ShowInStream = false

	keys := plan.AllKeys()
	likerIDs, err := s.actionRepo.GetLikerIDs(ctx, activityID)
	if err != nil {
		return err
	}
	for _, pid := range likerIDs {
		keys = append(keys, consts.FeedLikedKey+util.Uint64ToStr(pid))
	}
	starrerIDs, err := s.actionRepo.GetStarrerIDs(ctx, activityID)
	if err != nil {
		return err
	}
	for _, pid := range starrerIDs {
		keys = append(keys, consts.FeedStarredKey+util.Uint64ToStr(pid))
	}
	s.removeWithRetry(ctx, keys, []uint64{activityID}, "hide")

	if len(tags) > 0 {
		stream, err := s.streamRepo.GetStreamByID(ctx, activity.StreamID)
		if err != nil {
			return err
		}
		if stream != nil {
			scopes, err := s.trendScopeKeys(ctx, stream)
			if err != nil {
				return err
			}
			if err = s.trending.Remove(ctx, scopes, tags, activityID); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyVisibilityChange 流的公私翻转
// 分布式锁串行同流变更，目标分区批量增删后逐项校验，
// 校验不通过会带重试，最终失败返回扇出未完成
func (s *CacheCoordinatorImpl) ApplyVisibilityChange(ctx context.Context, streamID uint64, isPublic bool) error {
	if streamID == 0 {
		return ErrStreamInvalid
	}

	lockKey := consts.StreamVisibilityLock + util.Uint64ToStr(streamID)
	token := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, token, 30*time.Second, 3)
	if err != nil {
		return err
	}
	if !locked {
		return ErrVisibilityBusy
	}
	defer redis.UnLock(ctx, lockKey, token)

	stream, err := s.streamRepo.GetStreamByID(ctx, streamID)
	if err != nil {
		return err
	}
	if stream == nil {
		return ErrStreamNotFound
	}
	if stream.IsPublic == isPublic {
		return nil
	}

	if err = s.streamRepo.UpdateStreamVisibility(ctx, streamID, isPublic); err != nil {
		return err
	}
	if err = s.securityRepo.RebuildForStream(ctx, streamID, isPublic); err != nil {
		return err
	}
	stream.IsPublic = isPublic

	batchSize := config.Cfg.Fanout.VisFlipBatch
	if batchSize <= 0 {
		batchSize = 200
	}

	offset := 0
	for {
		ids, err := s.activityRepo.GetActivityIDsByStreamID(ctx, streamID, batchSize, offset)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if isPublic {
			err = s.promoteBatch(ctx, ids)
		} else {
			err = s.purgeBatch(ctx, ids)
		}
		if err != nil {
			return err
		}

		if len(ids) < batchSize {
			return nil
		}
		offset += batchSize
	}
}

// promoteBatch 私转公：流在库里已翻转，解算即得完整公开可达集合，
// 活动逐条补进分区并校验存在性
func (s *CacheCoordinatorImpl) promoteBatch(ctx context.Context, ids []uint64) error {
	activities, err := s.activityRepo.GetActivityByIds(ctx, ids)
	if err != nil {
		return err
	}

	eligible := make([]*model.Activity, 0, len(activities))
	for _, activity := range activities {
		if activity.ShowInStream {
			eligible = append(eligible, activity)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	plan, err := s.fanoutResolver.Resolve(ctx, eligible)
	if err != nil {
		return err
	}

	maxRetries := config.Cfg.Fanout.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ok := true
		for _, activity := range eligible {
			entry := plan.Entries[activity.ID]
			if entry == nil || len(entry.Keys) == 0 {
				continue
			}
			if err = s.partitions.AddToAll(ctx, entry.Keys, activity.ID, activity.PostedAt); err != nil {
				ok = false
				break
			}
			verified, verr := s.verifyMembership(ctx, entry.Keys, []uint64{activity.ID}, true)
			if verr != nil {
				return verr
			}
			if !verified {
				ok = false
				break
			}
		}
		if ok && err == nil {
			return nil
		}
		s.backoff(attempt)
	}

	s.recordFailure(ctx, 0, "visibility_promote", plan.AllKeys(), err)
	return ErrFanoutIncomplete
}

// purgeBatch 公转私：公开假设解算减去私有解算，差集即未授权可达分区，
// 含作者个人流与粉丝流，清除后校验无残留才算完成
func (s *CacheCoordinatorImpl) purgeBatch(ctx context.Context, ids []uint64) error {
	activities, err := s.activityRepo.GetActivityByIds(ctx, ids)
	if err != nil {
		return err
	}
	if len(activities) == 0 {
		return nil
	}

	fullPlan, err := s.fanoutResolver.ResolveAsPublic(ctx, activities)
	if err != nil {
		return err
	}
	privPlan, err := s.fanoutResolver.Resolve(ctx, activities)
	if err != nil {
		return err
	}

	removals := make(map[uint64][]string, len(activities))
	for _, activity := range activities {
		full := fullPlan.Entries[activity.ID]
		if full == nil {
			continue
		}
		retained := make(map[string]struct{})
		if priv := privPlan.Entries[activity.ID]; priv != nil {
			for _, key := range priv.Keys {
				retained[key] = struct{}{}
			}
		}
		for _, key := range full.Keys {
			if _, ok := retained[key]; !ok {
				removals[activity.ID] = append(removals[activity.ID], key)
			}
		}
	}
	if len(removals) == 0 {
		return nil
	}

	maxRetries := config.Cfg.Fanout.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ok := true
		for activityID, keys := range removals {
			if err = s.partitions.RemoveFromAll(ctx, keys, []uint64{activityID}); err != nil {
				ok = false
				break
			}
			verified, verr := s.verifyMembership(ctx, keys, []uint64{activityID}, false)
			if verr != nil {
				return verr
			}
			if !verified {
				ok = false
				break
			}
		}
		if ok && err == nil {
			return nil
		}
		s.backoff(attempt)
	}

	s.recordFailure(ctx, 0, "visibility_purge", fullPlan.AllKeys(), err)
	return ErrFanoutIncomplete
}

// verifyMembership 后置校验：want 为期望的成员存在状态
func (s *CacheCoordinatorImpl) verifyMembership(ctx context.Context, keys []string, ids []uint64, want bool) (bool, error) {
	for _, key := range keys {
		for _, id := range ids {
			exists, err := s.partitions.Contains(ctx, key, id)
			if err != nil {
				return false, err
			}
			if exists != want {
				return false, nil
			}
		}
	}
	return true, nil
}

// loadDescriptor 优先读落库的安全描述，缺失时按流现状补建
func (s *CacheCoordinatorImpl) loadDescriptor(ctx context.Context, activity *model.Activity) (*model.ActivitySecurity, error) {
	descriptors, err := s.securityRepo.GetByActivityIDs(ctx, []uint64{activity.ID})
	if err != nil {
		return nil, err
	}
	if len(descriptors) > 0 {
		return descriptors[0], nil
	}

	stream, err := s.streamRepo.GetStreamByID(ctx, activity.StreamID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, ErrStreamInvalid
	}
	return &model.ActivitySecurity{
		ActivityID:   activity.ID,
		StreamID:     stream.ID,
		DestEntityID: stream.EntityID,
		IsPublic:     stream.IsPublic,
	}, nil
}

// trendScopeKeys 活动贡献计数的作用域：自身流作用域加全部祖先组织
func (s *CacheCoordinatorImpl) trendScopeKeys(ctx context.Context, stream *model.Stream) ([]string, error) {
	scopes := []string{TrendScopeKey(stream.EntityType, stream.EntityID)}

	var orgID uint64
	switch stream.EntityType {
	case consts.EntityGroup:
		group, err := s.entityRepo.GetGroupByID(ctx, stream.EntityID)
		if err != nil {
			return nil, err
		}
		if group != nil {
			orgID = group.OrgID
		}
	case consts.EntityOrganization:
		orgID = stream.EntityID
	}
	if orgID == 0 {
		return scopes, nil
	}

	if stream.EntityType == consts.EntityGroup {
		scopes = append(scopes, TrendScopeKey(consts.EntityOrganization, orgID))
	}
	ancestorIDs, err := s.orgRepo.GetAncestorOrgIDs(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for _, aid := range ancestorIDs {
		scopes = append(scopes, TrendScopeKey(consts.EntityOrganization, aid))
	}
	return scopes, nil
}

// addWithRetry 整组幂等重试，耗尽后落运维记录
func (s *CacheCoordinatorImpl) addWithRetry(ctx context.Context, keys []string, activityID uint64, postedAt time.Time, operation string) {
	maxRetries := config.Cfg.Fanout.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = s.partitions.AddToAll(ctx, keys, activityID, postedAt); err == nil {
			return
		}
		s.backoff(attempt)
	}
	s.recordFailure(ctx, activityID, operation, keys, err)
}

func (s *CacheCoordinatorImpl) removeWithRetry(ctx context.Context, keys []string, activityIDs []uint64, operation string) {
	maxRetries := config.Cfg.Fanout.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = s.partitions.RemoveFromAll(ctx, keys, activityIDs); err == nil {
			return
		}
		s.backoff(attempt)
	}
	var firstID uint64
	if len(activityIDs) > 0 {
		firstID = activityIDs[0]
	}
	s.recordFailure(ctx, firstID, operation, keys, err)
}

func (s *CacheCoordinatorImpl) backoff(attempt int) {
	base := config.Cfg.Fanout.RetryBaseMs
	if base <= 0 {
		base = 50
	}
	time.Sleep(time.Duration(base*attempt) * time.Millisecond)
}

func (s *CacheCoordinatorImpl) recordFailure(ctx context.Context, activityID uint64, operation string, keys []string, cause error) {
	errMsg := ""
	if cause != nil {
		errMsg = cause.Error()
	}
	log.ErrorContext(ctx, "fanout incomplete after retries",
		"activity_id", activityID, "operation", operation, "keys", len(keys), "err", errMsg)

	failure := &mongo.FanoutFailureModel{
		ActivityID: activityID,
		Operation:  operation,
		Keys:       keys,
		LastError:  errMsg,
		Attempts:   config.Cfg.Fanout.MaxRetries,
		Status:     mongo.FailureStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := s.failureRepo.CreateFailure(ctx, failure); err != nil {
		log.ErrorContext(ctx, "record fanout failure error", "err", err)
	}
}

func (s *CacheCoordinatorImpl) cleanupCountKeys(ctx context.Context, ids []uint64) {
	for _, id := range ids {
		idStr := util.Uint64ToStr(id)
		for _, key := range []string{
			consts.ActivityLikeCountKey + idStr,
			consts.ActivityStarCountKey + idStr,
			consts.ActivityCommentCountKey + idStr,
			consts.ActivityLikersKey + idStr,
		} {
			if err := redis.DeleteKey(ctx, key); err != nil {
				log.WarnContext(ctx, "cleanup count key error", "key", key, "err", err)
			}
		}
	}
}

// 索引只收通知，核心链路不等待
func (s *CacheCoordinatorImpl) notifyIndexAsync(activity *model.Activity, tags []string, isPublic bool) {
	if s.esRepo == nil {
		return
	}
	doc := &es.ActivityES{
		ID:            activity.ID,
		ActorType:     activity.ActorType,
		ActorID:       activity.ActorID,
		StreamID:      activity.StreamID,
		Verb:          activity.Verb,
		Content:       activity.Content,
		Tags:          tags,
		IsPublic:      isPublic,
		LikesCount:    activity.LikesCount,
		CommentsCount: activity.CommentsCount,
		PostedAt:      activity.PostedAt,
	}
	version := activity.UpdatedAt.UnixNano()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.esRepo.IndexActivity(ctx, doc, version); err != nil {
			log.Error("index activity error", "activity_id", doc.ID, "err", err)
		}
	}()
}

func (s *CacheCoordinatorImpl) notifyDeleteAsync(ids []uint64) {
	if s.esRepo == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, id := range ids {
			if err := s.esRepo.DeleteActivity(ctx, id); err != nil {
				log.Error("delete activity index error", "activity_id", id, "err", err)
			}
		}
	}()
}
