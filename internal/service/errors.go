package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrStreamInvalid    = errors.New("目的流无效")
	ErrStreamNotFound   = errors.New("目的流不存在")
	ErrEntityNotFound   = errors.New("实体不存在")
	ErrActivityNotFound = errors.New("活动不存在")
	ErrRecordNotFound   = errors.New("记录不存在")
	ErrHashtagInvalid   = errors.New("标签内容无效")
	ErrActionDuplicate  = errors.New("重复操作")
	ErrFollowSelf       = errors.New("不能关注自己")
	ErrFollowExist      = errors.New("已经关注")
	ErrVisibilityBusy   = errors.New("可见性变更进行中，请稍后重试")
	ErrFanoutIncomplete = errors.New("扇出未完成")
	UnauthorizedError   = errors.New("权限不足")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrStreamInvalid:    BadRequest,
	ErrStreamNotFound:   NotFound,
	ErrEntityNotFound:   NotFound,
	ErrActivityNotFound: NotFound,
	ErrRecordNotFound:   NotFound,
	ErrHashtagInvalid:   BadRequest,
	ErrActionDuplicate:  BadRequest,
	ErrFollowSelf:       BadRequest,
	ErrFollowExist:      BadRequest,
	ErrVisibilityBusy:   BadRequest,
	ErrFanoutIncomplete: InternalServerError,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
}
