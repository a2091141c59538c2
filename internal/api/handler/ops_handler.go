package handler

import (
	"Streamline/internal/api/dto"
	"Streamline/internal/pkg/response"
	"Streamline/internal/service"

	"github.com/gin-gonic/gin"
)

type OpsHandler struct {
	opsSvc service.OpsService
}

func NewOpsHandler(opsSvc service.OpsService) *OpsHandler {
	return &OpsHandler{
		opsSvc: opsSvc,
	}
}

// GetFanoutFailures 待处理的扇出失败记录
func (s *OpsHandler) GetFanoutFailures(c *gin.Context) {
	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.opsSvc.GetFanoutFailures(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ResolveFanoutFailure 标记一条失败记录已人工处理
func (s *OpsHandler) ResolveFanoutFailure(c *gin.Context) {
	failureID := c.Param("failure_id")
	if failureID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.opsSvc.ResolveFanoutFailure(c.Request.Context(), failureID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetLeakFindings 巡检发现的泄露留档
func (s *OpsHandler) GetLeakFindings(c *gin.Context) {
	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.opsSvc.GetLeakFindings(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
