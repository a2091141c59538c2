package handler

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/response"
	"Streamline/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ActionHandler struct {
	actionSvc service.ActionService
}

func NewActionHandler(actionSvc service.ActionService) *ActionHandler {
	return &ActionHandler{
		actionSvc: actionSvc,
	}
}

// LikeActivity 点赞/取消点赞活动
func (s *ActionHandler) LikeActivity(c *gin.Context) {
	activityID, err := strconv.ParseUint(c.Param("activity_id"), 10, 64)
	if err != nil || activityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	personID := c.GetUint64("person_id")
	var req dto.ActivityActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if req.Action == 1 {
		err = s.actionSvc.LikeActivity(c.Request.Context(), personID, activityID)
	} else {
		err = s.actionSvc.CancelLikeActivity(c.Request.Context(), personID, activityID)
	}

	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// StarActivity 收藏/取消收藏活动
func (s *ActionHandler) StarActivity(c *gin.Context) {
	activityID, err := strconv.ParseUint(c.Param("activity_id"), 10, 64)
	if err != nil || activityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	personID := c.GetUint64("person_id")
	var req dto.ActivityActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if req.Action == 1 {
		err = s.actionSvc.StarActivity(c.Request.Context(), personID, activityID)
	} else {
		err = s.actionSvc.CancelStarActivity(c.Request.Context(), personID, activityID)
	}

	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateComment 发表评论
func (s *ActionHandler) CreateComment(c *gin.Context) {
	personID := c.GetUint64("person_id")
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.actionSvc.CreateComment(c.Request.Context(), personID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetActionState 获取活动详情页的全量交互状态
func (s *ActionHandler) GetActionState(c *gin.Context) {
	personID := c.GetUint64("person_id")
	activityID, err := strconv.ParseUint(c.Param("activity_id"), 10, 64)
	if err != nil || activityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := s.actionSvc.GetActionState(c.Request.Context(), personID, activityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

// GetLikers 获取点赞人列表
func (s *ActionHandler) GetLikers(c *gin.Context) {
	activityID, err := strconv.ParseUint(c.Param("activity_id"), 10, 64)
	if err != nil || activityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	likerIDs, err := s.actionSvc.GetLikers(c.Request.Context(), activityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, likerIDs)
}
