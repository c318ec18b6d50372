/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-05 11:02:36
 * @LastEditTime: 2026-02-22 15:40:19
 * @LastEditors: 安知鱼
 */
// aurora-app/cmd/server/app.go
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/aurora-app/internal/app/bootstrap"
	"github.com/anzhiyu-c/aurora-app/internal/app/task"
	"github.com/anzhiyu-c/aurora-app/internal/infra/persistence/database"
	"github.com/anzhiyu-c/aurora-app/internal/infra/persistence/gormimpl"
	"github.com/anzhiyu-c/aurora-app/internal/infra/router"
	"github.com/anzhiyu-c/aurora-app/internal/infra/storage"
	"github.com/anzhiyu-c/aurora-app/pkg/config"
	content_handler "github.com/anzhiyu-c/aurora-app/pkg/handler/content"
	media_handler "github.com/anzhiyu-c/aurora-app/pkg/handler/media"
	migration_handler "github.com/anzhiyu-c/aurora-app/pkg/handler/migration"
	"github.com/anzhiyu-c/aurora-app/pkg/idgen"
	content_service "github.com/anzhiyu-c/aurora-app/pkg/service/content"
	"github.com/anzhiyu-c/aurora-app/pkg/service/imageproc"
	media_service "github.com/anzhiyu-c/aurora-app/pkg/service/media"
	migration_service "github.com/anzhiyu-c/aurora-app/pkg/service/migration"
	"github.com/anzhiyu-c/aurora-app/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg       *config.Config
	engine    *gin.Engine
	server    *http.Server
	scheduler *task.Scheduler
}

// NewApp 构造并装配整个应用。
// 依赖按 配置 -> 基础设施 -> 仓库 -> 服务 -> 处理器 -> 路由 的顺序手工注入。
func NewApp() (*App, func(), error) {
	// --- 1. 配置与基础组件 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	if err := idgen.InitSqidsEncoder(); err != nil {
		return nil, nil, fmt.Errorf("初始化ID生成器失败: %w", err)
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if err := bootstrap.NewBootstrapper(db).InitializeDatabase(); err != nil {
		cleanup()
		return nil, nil, err
	}

	// --- 2. 仓库与存储提供者 ---
	mediaRepo := gormimpl.NewGormMediaRepository(db)
	contentRepo := gormimpl.NewGormContentRepository(db)
	staleRepo := gormimpl.NewGormStalePayloadRepository(db)
	provider := storage.NewS3Provider(cfg)

	// --- 3. 领域服务 ---
	optimizer := imageproc.NewOptimizer(imageproc.Config{
		MaxWidth:     cfg.GetIntOrDefault(config.KeyMediaMaxWidth, 1920),
		MaxHeight:    cfg.GetIntOrDefault(config.KeyMediaMaxHeight, 1080),
		Quality:      cfg.GetIntOrDefault(config.KeyMediaQuality, 80),
		ThumbSize:    cfg.GetIntOrDefault(config.KeyMediaThumbSize, 200),
		ThumbQuality: cfg.GetIntOrDefault(config.KeyMediaThumbQuality, 70),
	})

	maxUploadSize := int64(cfg.GetIntOrDefault(config.KeyMediaMaxUploadSizeMB, 5)) * 1024 * 1024
	mediaSvc := media_service.NewMediaService(mediaRepo, optimizer, provider, maxUploadSize)

	locker := utility.NewItemLocker()
	resolver := content_service.NewBackendFactory(
		content_service.NewInlineBackend(contentRepo),
		content_service.NewObjectBackend(provider),
	)
	maxContentSize := int64(cfg.GetIntOrDefault(config.KeyContentMaxSizeMB, 10)) * 1024 * 1024
	contentSvc := content_service.NewContentService(
		contentRepo,
		resolver,
		content_service.NewValidator(maxContentSize),
		locker,
	)

	coordinator := migration_service.NewCoordinator(contentRepo, staleRepo, resolver, locker)

	// --- 4. 处理器与路由 ---
	mediaHandler := media_handler.NewMediaHandler(mediaSvc)
	contentHandler := content_handler.NewHandler(contentSvc)
	migrationHandler := migration_handler.NewHandler(coordinator)

	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.MaxMultipartMemory = maxUploadSize

	appRouter := router.NewRouter(mediaHandler, contentHandler, migrationHandler)
	appRouter.Setup(engine)

	// --- 5. 后台任务 ---
	scheduler := task.NewScheduler(contentRepo, staleRepo, provider)

	return &App{
		cfg:       cfg,
		engine:    engine,
		scheduler: scheduler,
	}, cleanup, nil
}

// Run 启动 HTTP 服务并阻塞到其退出。
func (a *App) Run() error {
	a.scheduler.RegisterJobs()
	a.scheduler.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	a.server = &http.Server{
		Addr:    ":" + port,
		Handler: a.engine,
	}
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 优雅地停止 HTTP 服务和后台任务。
func (a *App) Stop() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			log.Printf("警告: HTTP 服务关闭失败: %v", err)
		}
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
		log.Println("任务调度器已停止。")
	}
}
