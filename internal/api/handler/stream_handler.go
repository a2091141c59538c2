package handler

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/response"
	"Streamline/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	activitySvc service.ActivityService
	resolver    service.EntityResolver
}

func NewStreamHandler(activitySvc service.ActivityService, resolver service.EntityResolver) *StreamHandler {
	return &StreamHandler{
		activitySvc: activitySvc,
		resolver:    resolver,
	}
}

// ChangeVisibility 翻转流的公开可见性并重建公共分区
func (s *StreamHandler) ChangeVisibility(c *gin.Context) {
	var req dto.StreamVisibilityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.activitySvc.ChangeStreamVisibility(c.Request.Context(), req.StreamID, *req.IsPublic); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ResolveStream 按实体类型和唯一键查流
func (s *StreamHandler) ResolveStream(c *gin.Context) {
	var req dto.StreamResolveReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	streamID, err := s.resolver.ResolveStreamID(c.Request.Context(), req.EntityType, req.UniqueKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	entityType, entityID, err := s.resolver.ResolveEntityID(c.Request.Context(), streamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.StreamResolveDTO{
		StreamID:   streamID,
		EntityType: entityType,
		EntityID:   entityID,
	})
}

// ResolveEntity 按流 id 反查实体
func (s *StreamHandler) ResolveEntity(c *gin.Context) {
	streamID, err := strconv.ParseUint(c.Param("stream_id"), 10, 64)
	if err != nil || streamID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	entityType, entityID, err := s.resolver.ResolveEntityID(c.Request.Context(), streamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.StreamResolveDTO{
		StreamID:   streamID,
		EntityType: entityType,
		EntityID:   entityID,
	})
}
