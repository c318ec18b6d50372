/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-05 09:40:12
 * @LastEditTime: 2026-02-22 15:22:05
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log"

	"github.com/anzhiyu-c/aurora-app/internal/infra/storage"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
)

// StalePayloadSweepJob 重试删除迁移成功后遗留在源端的对象载荷。
// 登记表里的每条记录都代表一次当时失败的清理，删除成功后摘除登记。
type StalePayloadSweepJob struct {
	staleRepo repository.StalePayloadRepository
	provider  storage.IObjectProvider
}

// NewStalePayloadSweepJob 是任务的构造函数。
func NewStalePayloadSweepJob(
	staleRepo repository.StalePayloadRepository,
	provider storage.IObjectProvider,
) *StalePayloadSweepJob {
	return &StalePayloadSweepJob{
		staleRepo: staleRepo,
		provider:  provider,
	}
}

// Run 是 Job 接口要求实现的方法。
func (j *StalePayloadSweepJob) Run() {
	ctx := context.Background()

	payloads, err := j.staleRepo.ListAll(ctx)
	if err != nil {
		log.Printf("错误: 任务 '%s' 读取残留载荷登记失败: %v", j.Name(), err)
		return
	}
	if len(payloads) == 0 {
		return
	}

	var cleaned int
	for _, p := range payloads {
		if err := j.provider.Delete(ctx, p.Key); err != nil {
			// 远端仍不可达，保留登记等待下一轮
			log.Printf("警告: 任务 '%s' 清理对象 %q 失败 (条目 %s/%s): %v", j.Name(), p.Key, p.ItemType, p.ItemID, err)
			continue
		}
		if err := j.staleRepo.Delete(ctx, p.ID); err != nil {
			log.Printf("错误: 任务 '%s' 摘除登记 %d 失败: %v", j.Name(), p.ID, err)
			continue
		}
		cleaned++
	}

	log.Printf("任务 '%s' 执行完毕，清理了 %d/%d 条残留载荷。", j.Name(), cleaned, len(payloads))
}

// Name 方法返回任务的可读名称。
func (j *StalePayloadSweepJob) Name() string {
	return "StalePayloadSweepJob"
}
