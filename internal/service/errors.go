package service

import (
	"errors"
	"fmt"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
)

var (
	ErrValidation        = errors.New("参数错误")
	ErrStorage           = errors.New("文件上传失败，请稍后重试")
	ErrCoinProvisioning  = errors.New("创作者代币创建失败，请稍后重试")
	ErrPersistence       = errors.New("内容保存失败，请稍后重试")
	ErrNotFound          = errors.New("内容不存在")
	ErrCoinNotFound      = errors.New("创作者代币不存在")
	ErrForbidden         = errors.New("无权操作该内容")
	ErrInvalidTransition = errors.New("不允许的审核状态变更")
	ErrDuplicateMint     = errors.New("该交易已记录")
	ErrTradeFailed       = errors.New("代币交易失败")
	ErrSearchUnavailable = errors.New("搜索服务不可用")
	UnauthorizedError    = errors.New("权限不足")
	UnExpectedError      = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrValidation:        BadRequest,
	ErrStorage:           InternalServerError,
	ErrCoinProvisioning:  InternalServerError,
	ErrPersistence:       InternalServerError,
	ErrNotFound:          NotFound,
	ErrCoinNotFound:      NotFound,
	ErrForbidden:         Forbidden,
	ErrInvalidTransition: Conflict,
	ErrDuplicateMint:     Conflict,
	ErrTradeFailed:       BadGateway,
	ErrSearchUnavailable: InternalServerError,
	UnauthorizedError:    Unauthorized,
	UnExpectedError:      InternalServerError,
}

// ValidationError 字段级校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Classify 返回 err 对应的哨兵错误与状态码，未知错误返回 UnExpectedError
func Classify(err error) (error, int) {
	for sentinel, code := range ErrorMap {
		if errors.Is(err, sentinel) {
			return sentinel, code
		}
	}
	return UnExpectedError, InternalServerError
}

// stageError 同时保留阶段哨兵与底层原因
func stageError(sentinel error, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
