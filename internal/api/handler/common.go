package handler

import (
	"Mintora/internal/pkg/consts"
	"Mintora/internal/pkg/util"
	"Mintora/internal/service"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// bindJSON 解析请求体并校验 validate 标签
func bindJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil {
		return service.NewValidationError("body", "请求体为空")
	}
	if err := json.NewDecoder(c.Request.Body).Decode(obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return err
		}
		return service.NewValidationError("body", "Json格式错误")
	}
	return validate(obj)
}

// bindQuery 解析查询参数并校验
func bindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return service.NewValidationError("query", err.Error())
	}
	return validate(obj)
}

func validate(obj any) error {
	if err := util.ValidateDTO(obj); err != nil {
		if field, tag, ok := util.FirstInvalidField(err); ok {
			return service.NewValidationError(lowerFirst(field), "校验失败: "+tag)
		}
		return service.NewValidationError("body", err.Error())
	}
	return nil
}

// contentID 解析路径中的内容 ID
func contentID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.NewValidationError("id", "内容 ID 不合法")
	}
	return id, nil
}

// creatorID 当前登录的创作者，未登录为空串
func creatorID(c *gin.Context) string {
	return c.GetString(consts.CreatorIDKey)
}

// parseDecimal 空串返回 nil
func parseDecimal(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, service.NewValidationError(field, "不是合法的数字")
	}
	return &d, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
