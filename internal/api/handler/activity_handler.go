package handler

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/response"
	"Streamline/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activitySvc service.ActivityService
}

func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activitySvc: activitySvc,
	}
}

// CreateActivity 发布新活动并同步扇出到各缓存分区
func (s *ActivityHandler) CreateActivity(c *gin.Context) {
	personID := c.GetUint64("person_id")

	var req dto.ActivityCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	activity, err := s.activitySvc.CreateActivity(c.Request.Context(), personID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, activity)
}

// GetActivity 获取活动详情
func (s *ActivityHandler) GetActivity(c *gin.Context) {
	activityID, err := strconv.ParseUint(c.Param("activity_id"), 10, 64)
	if err != nil || activityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	activity, err := s.activitySvc.GetActivity(c.Request.Context(), activityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, activity)
}

// DeleteActivities 批量删除活动并回收全部分区成员
func (s *ActivityHandler) DeleteActivities(c *gin.Context) {
	personID := c.GetUint64("person_id")

	var req dto.ActivityDeleteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.activitySvc.DeleteActivities(c.Request.Context(), personID, req.ActivityIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetShowInStream 隐藏或恢复活动在流中的展示
func (s *ActivityHandler) SetShowInStream(c *gin.Context) {
	personID := c.GetUint64("person_id")
	activityID, err := strconv.ParseUint(c.Param("activity_id"), 10, 64)
	if err != nil || activityID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.ActivityHideDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.activitySvc.SetShowInStream(c.Request.Context(), personID, activityID, *req.Show); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
