/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-05 10:02:48
 * @LastEditTime: 2026-02-22 15:24:19
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
)

// StorageStatsJob 定期输出各存储后端的条目分布，便于观察迁移进度。
type StorageStatsJob struct {
	contentRepo repository.ContentRepository
}

// NewStorageStatsJob 是任务的构造函数。
func NewStorageStatsJob(contentRepo repository.ContentRepository) *StorageStatsJob {
	return &StorageStatsJob{contentRepo: contentRepo}
}

// Run 是 Job 接口要求实现的方法。
func (j *StorageStatsJob) Run() {
	ctx := context.Background()

	counts, err := j.contentRepo.CountByStorageType(ctx)
	if err != nil {
		log.Printf("错误: 任务 '%s' 统计存储分布失败: %v", j.Name(), err)
		return
	}

	log.Printf("任务 '%s': 内联存储 %d 条，对象存储 %d 条。",
		j.Name(), counts[constant.StorageTypeInline], counts[constant.StorageTypeObject])
}

// Name 方法返回任务的可读名称。
func (j *StorageStatsJob) Name() string {
	return "StorageStatsJob"
}
