/*
 * @Description: 应用路由注册
 * @Author: 安知鱼
 * @Date: 2025-09-04 15:02:11
 * @LastEditTime: 2026-02-22 15:10:46
 * @LastEditors: 安知鱼
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/aurora-app/internal/app/middleware"
	content_handler "github.com/anzhiyu-c/aurora-app/pkg/handler/content"
	media_handler "github.com/anzhiyu-c/aurora-app/pkg/handler/media"
	migration_handler "github.com/anzhiyu-c/aurora-app/pkg/handler/migration"
)

// NoCacheMiddleware 全局反缓存中间件，确保 API 响应不会被 CDN 缓存。
// 媒体文件的 Serve 接口会自行覆盖 Cache-Control。
func NoCacheMiddleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("X-Content-Type-Options", "nosniff")

		c.Next()
	})
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	mediaHandler     *media_handler.MediaHandler
	contentHandler   *content_handler.Handler
	migrationHandler *migration_handler.Handler
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	mediaHandler *media_handler.MediaHandler,
	contentHandler *content_handler.Handler,
	migrationHandler *migration_handler.Handler,
) *Router {
	return &Router{
		mediaHandler:     mediaHandler,
		contentHandler:   contentHandler,
		migrationHandler: migrationHandler,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
// 这是在 main.go 中将被调用的唯一入口点。
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Cors())

	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())

	r.registerMediaRoutes(apiGroup)
	r.registerContentRoutes(apiGroup)
	r.registerMigrationRoutes(apiGroup)
}

func (r *Router) registerMediaRoutes(api *gin.RouterGroup) {
	media := api.Group("/media")
	{
		media.POST("/upload", r.mediaHandler.Upload)
		media.GET("", r.mediaHandler.List)
		media.GET("/:id", r.mediaHandler.Get)
		media.PUT("/:id/alt", r.mediaHandler.UpdateAlt)
		media.DELETE("/:id", r.mediaHandler.Delete)
		// Serve 直接返回字节流，不走统一响应体
		media.GET("/:id/serve", r.mediaHandler.Serve)
	}
}

func (r *Router) registerContentRoutes(api *gin.RouterGroup) {
	content := api.Group("/content")
	{
		content.PUT("/:type/:id", r.contentHandler.Save)
		content.GET("/:type/:id", r.contentHandler.Get)
	}
}

func (r *Router) registerMigrationRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	{
		admin.POST("/migration", r.migrationHandler.Migrate)
		admin.POST("/migration/batch", r.migrationHandler.BatchMigrate)
	}
}
