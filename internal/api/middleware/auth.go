package middleware

import (
	"Mintora/internal/pkg/consts"
	"Mintora/internal/pkg/response"
	"Mintora/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenDenyList 已注销 Token 的签名黑名单，由 Redis 实现
type TokenDenyList interface {
	GetValue(ctx context.Context, key string) (string, error)
}

// AuthMiddleware 负责验证 JWT 并将创作者身份信息注入 Context，denyList 可为 nil
func AuthMiddleware(denyList TokenDenyList) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		if denyList != nil {
			value, err := denyList.GetValue(c.Request.Context(), signature)
			if err != nil {
				response.Fail(c, response.InternalServerError, "未知错误")
				c.Abort()
				return
			}
			if value != "" {
				response.Fail(c, response.Unauthorized, "Token 无效或已过期")
				c.Abort()
				return
			}
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *security.CreatorClaims) {
	c.Set(consts.CreatorIDKey, claims.CreatorID)
	c.Set(consts.RolesKey, claims.Roles)

	newCtx := context.WithValue(c.Request.Context(), consts.CreatorIDKey, claims.CreatorID)
	c.Request = c.Request.WithContext(newCtx)
}
