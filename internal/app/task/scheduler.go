/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-05 09:20:31
 * @LastEditTime: 2026-02-22 15:28:44
 * @LastEditors: 安知鱼
 */
package task

import (
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/anzhiyu-c/aurora-app/internal/infra/storage"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
)

// Scheduler 封装了 cron 实例和其依赖。
// 它是整个定时任务模块的核心协调者，负责任务的注册、启动和停止。
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	// 在这里注入所有任务可能需要的依赖
	contentRepo repository.ContentRepository
	staleRepo   repository.StalePayloadRepository
	provider    storage.IObjectProvider
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(
	contentRepo repository.ContentRepository,
	staleRepo repository.StalePayloadRepository,
	provider storage.IObjectProvider,
) *Scheduler {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		cron:        c,
		logger:      logger,
		contentRepo: contentRepo,
		staleRepo:   staleRepo,
		provider:    provider,
	}
}

// RegisterJobs 在调度器中注册所有定义好的定时任务。
func (s *Scheduler) RegisterJobs() {
	s.logger.Info("Registering all periodic jobs...")

	// --- 任务1: 重试清理迁移残留的源端载荷 ---
	sweepJob := NewStalePayloadSweepJob(s.staleRepo, s.provider)

	_, err := s.cron.AddJob("0 15 * * * *", sweepJob)
	if err != nil {
		s.logger.Error("Failed to add 'StalePayloadSweepJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'StalePayloadSweepJob'", "schedule", "every hour at :15:00")

	// --- 任务2: 输出存储后端条目分布 ---
	statsJob := NewStorageStatsJob(s.contentRepo)
	_, err = s.cron.AddJob("0 0 4 * * *", statsJob)
	if err != nil {
		s.logger.Error("Failed to add 'StorageStatsJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'StorageStatsJob'", "schedule", "every day at 4:00:00 AM")

	s.logger.Info("All periodic jobs registered.")
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
