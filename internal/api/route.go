package api

import (
	"Mintora/internal/api/middleware"
	"Mintora/internal/pkg/consts"
	"Mintora/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter denyList 为已注销 Token 的黑名单，可为 nil
func SetupRouter(group *HandlersGroup, denyList middleware.TokenDenyList, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	logger.SetupGin(r)

	auth := middleware.AuthMiddleware(denyList)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "pong",
				"data":    nil,
			})
		})

		contentGroup := apiGroup.Group("/content")
		{
			contentGroup.GET("/trending", group.ContentHandler.Trending)
			contentGroup.GET("/search", group.ContentHandler.Search)

			// 创作者查看自己的待审核内容
			authOptGroup := contentGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.ContentHandler.List)
				authOptGroup.GET("/:id", group.ContentHandler.Get)
			}

			authGroup := contentGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("", group.ContentHandler.Publish)
				authGroup.PUT("/:id", group.ContentHandler.UpdateTerms)
				authGroup.POST("/:id/mint", group.ContentHandler.Mint)
				authGroup.POST("/:id/predict", group.ContentHandler.Predict)
			}

			// 需要登录 & 拥有审核或管理员角色
			moderatorGroup := contentGroup.Group("")
			moderatorGroup.Use(auth, middleware.CheckRoles(consts.RoleModerator, consts.RoleAdmin))
			{
				moderatorGroup.PUT("/:id/status", group.ContentHandler.UpdateStatus)
			}
		}

		coinGroup := apiGroup.Group("/coins")
		{
			coinGroup.GET("/creator/:creatorId", group.CoinHandler.GetByCreator)

			authGroup := coinGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("/:address/buy", group.CoinHandler.Buy)
				authGroup.POST("/:address/sell", group.CoinHandler.Sell)
			}
		}
	}

	return r
}
