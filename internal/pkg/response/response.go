package response

import (
	"Mintora/internal/api/dto"
	"Mintora/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	Created             = 201
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Success: true,
		Data:    data,
	})
}

// Create 创建成功返回封装
func Create(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.Response{
		Success: true,
		Data:    data,
	})
}

// List 列表返回封装，total 可为 nil
func List(ctx *gin.Context, count int, total *int64, data interface{}) {
	ctx.JSON(http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   count,
		Total:   total,
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, dto.ErrorResponse{
		Success: false,
		Message: message,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	var fieldErr *service.ValidationError
	if errors.As(err, &fieldErr) {
		c.JSON(BadRequest, dto.ErrorResponse{
			Success: false,
			Message: fieldErr.Error(),
			Field:   fieldErr.Field,
		})
		return
	}

	sentinel, code := service.Classify(err)
	if code >= InternalServerError {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
	}
	message := sentinel.Error()
	if errors.Is(err, service.ErrTradeFailed) {
		message = err.Error()
	}
	Fail(c, code, message)
}
