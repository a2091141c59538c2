package handler

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/response"
	"Streamline/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedSvc: feedSvc,
	}
}

// GetEveryoneFeed 获取公共流
func (s *FeedHandler) GetEveryoneFeed(c *gin.Context) {
	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.GetEveryoneFeed(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetFollowingFeed 获取关注流
func (s *FeedHandler) GetFollowingFeed(c *gin.Context) {
	personID := c.GetUint64("person_id")

	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.GetFollowingFeed(c.Request.Context(), personID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetPersonFeed 获取个人主页流
func (s *FeedHandler) GetPersonFeed(c *gin.Context) {
	personID, err := strconv.ParseUint(c.Param("person_id"), 10, 64)
	if err != nil || personID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	viewerID := c.GetUint64("person_id")
	feed, err := s.feedSvc.GetPersonFeed(c.Request.Context(), viewerID, personID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetGroupFeed 获取小组流，私有小组仅成员可见
func (s *FeedHandler) GetGroupFeed(c *gin.Context) {
	viewerID := c.GetUint64("person_id")
	groupID, err := strconv.ParseUint(c.Param("group_id"), 10, 64)
	if err != nil || groupID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.GetGroupFeed(c.Request.Context(), viewerID, groupID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetOrgFeed 获取组织聚合流
func (s *FeedHandler) GetOrgFeed(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("org_id"), 10, 64)
	if err != nil || orgID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.GetOrgFeed(c.Request.Context(), orgID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetLikedFeed 获取当前用户点赞过的活动流
func (s *FeedHandler) GetLikedFeed(c *gin.Context) {
	personID := c.GetUint64("person_id")

	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.GetLikedFeed(c.Request.Context(), personID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetStarredFeed 获取当前用户收藏过的活动流
func (s *FeedHandler) GetStarredFeed(c *gin.Context) {
	personID := c.GetUint64("person_id")

	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.GetStarredFeed(c.Request.Context(), personID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetTrendingTags 获取指定范围内的热门话题榜
func (s *FeedHandler) GetTrendingTags(c *gin.Context) {
	var req dto.TrendQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	scopeKey := service.TrendScopeKey(req.EntityType, req.EntityID)
	trend, err := s.feedSvc.GetTrendingTags(c.Request.Context(), scopeKey, req.WindowHours, req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}

// SearchActivities 全文检索公开活动
func (s *FeedHandler) SearchActivities(c *gin.Context) {
	var req dto.SearchQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.SearchActivities(c.Request.Context(), req.Query, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}
