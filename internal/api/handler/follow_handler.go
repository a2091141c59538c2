package handler

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/response"
	"Streamline/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followSvc service.FollowService
}

func NewFollowHandler(followSvc service.FollowService) *FollowHandler {
	return &FollowHandler{
		followSvc: followSvc,
	}
}

// Follow 关注实体
func (s *FollowHandler) Follow(c *gin.Context) {
	personID := c.GetUint64("person_id")
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil || entityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.followSvc.Follow(c.Request.Context(), personID, entityID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注
func (s *FollowHandler) Unfollow(c *gin.Context) {
	personID := c.GetUint64("person_id")
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil || entityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.followSvc.Unfollow(c.Request.Context(), personID, entityID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetFollowers 分页获取实体的粉丝列表
func (s *FollowHandler) GetFollowers(c *gin.Context) {
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil || entityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	followers, err := s.followSvc.GetFollowers(c.Request.Context(), entityID, req.PageSize, (req.Page-1)*req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

// GetFollowState 获取粉丝数与当前用户的关注状态
func (s *FollowHandler) GetFollowState(c *gin.Context) {
	personID := c.GetUint64("person_id")
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil || entityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state := &dto.FollowStateDTO{}
	state.FollowerCount, err = s.followSvc.GetFollowerCount(c.Request.Context(), entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if personID > 0 {
		state.IsFollowing, _ = s.followSvc.IsFollowing(c.Request.Context(), personID, entityID)
	}
	response.Success(c, state)
}
