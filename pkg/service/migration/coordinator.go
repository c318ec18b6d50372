/*
 * @Description: 存储迁移协调器：单条目的 读取→写入→翻转→清理 序列，
 *               以及按固定批次、批内并发、逐项结算的批量迁移。
 * @Author: 安知鱼
 * @Date: 2025-09-04 09:08:15
 * @LastEditTime: 2026-02-22 12:10:36
 * @LastEditors: 安知鱼
 */
package migration

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
	"github.com/anzhiyu-c/aurora-app/pkg/service/content"
	"github.com/anzhiyu-c/aurora-app/pkg/service/utility"
)

// DefaultBatchSize 是批量迁移的默认批次大小。
const DefaultBatchSize = 10

// Coordinator 在两个存储后端之间搬运内容条目的正文。
type Coordinator struct {
	contentRepo repository.ContentRepository
	staleRepo   repository.StalePayloadRepository
	resolver    content.BackendResolver
	locker      *utility.ItemLocker
}

// NewCoordinator 是 Coordinator 的构造函数。
func NewCoordinator(
	contentRepo repository.ContentRepository,
	staleRepo repository.StalePayloadRepository,
	resolver content.BackendResolver,
	locker *utility.ItemLocker,
) *Coordinator {
	return &Coordinator{
		contentRepo: contentRepo,
		staleRepo:   staleRepo,
		resolver:    resolver,
		locker:      locker,
	}
}

// Migrate 把单个条目的正文从 from 后端迁往 to 后端。
// from == to 是空操作。目标写入失败时记录保持原状（仍指向 from），
// 返回携带根因的迁移错误，整个操作可安全重试。
func (c *Coordinator) Migrate(
	ctx context.Context,
	publicID string,
	contentType constant.ContentType,
	from, to constant.StorageType,
) error {
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: 无效的存储类型 (from=%s, to=%s)", constant.ErrBadRequest, from, to)
	}
	if from == to {
		return nil
	}

	c.locker.Lock(string(contentType), publicID)
	defer c.locker.Unlock(string(contentType), publicID)

	item, err := c.contentRepo.FindByID(ctx, publicID, contentType)
	if err != nil {
		return err
	}
	if item.StorageType != from {
		return fmt.Errorf("%w: 条目 '%s' 当前的存储类型是 '%s'，而非请求的源 '%s'",
			constant.ErrStorageTypeMismatch, publicID, item.StorageType, from)
	}

	return c.execute(ctx, item, to)
}

// MigrateToTarget 以条目此刻的存储类型为源执行迁移：加锁后逐个查询
// 当前后端，已经在目标后端上的条目是空操作。管理端接口与批量路径都走这里。
func (c *Coordinator) MigrateToTarget(
	ctx context.Context,
	it model.MigrateItem,
	to constant.StorageType,
) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: 无效的目标存储类型 '%s'", constant.ErrBadRequest, to)
	}
	c.locker.Lock(string(it.Type), it.ID)
	defer c.locker.Unlock(string(it.Type), it.ID)

	item, err := c.contentRepo.FindByID(ctx, it.ID, it.Type)
	if err != nil {
		return err
	}
	if item.StorageType == to {
		return nil
	}
	return c.execute(ctx, item, to)
}

// execute 执行不可再分的迁移序列：读取 → 写入(含翻转) → 尽力清理源端。
// 写入由目标后端原子地完成载荷落盘与指向翻转，因此任何时刻
// 记录都不会声称一个尚未持久化的后端。
func (c *Coordinator) execute(ctx context.Context, item *model.ContentItem, to constant.StorageType) error {
	fromBackend, err := c.resolver.Resolve(item.StorageType)
	if err != nil {
		return err
	}
	toBackend, err := c.resolver.Resolve(to)
	if err != nil {
		return err
	}

	body, err := fromBackend.Get(ctx, item)
	if err != nil {
		return fmt.Errorf("%w: 从源后端 '%s' 读取条目 '%s' 失败: %w",
			constant.ErrMigration, item.StorageType, item.ID, err)
	}

	// 保留迁移前的定位信息，写入成功后用它清理源端
	snapshot := *item

	if err := toBackend.Save(ctx, item, body); err != nil {
		return fmt.Errorf("%w: 向目标后端 '%s' 写入条目 '%s' 失败: %w",
			constant.ErrMigration, to, item.ID, err)
	}

	// 翻转已随写入完成；源端残留的清理是尽力而为。
	// 悬空的源载荷是可接受的代价，指向缺失数据的指针才是不可接受的。
	if err := fromBackend.Delete(ctx, &snapshot); err != nil {
		log.Printf("[迁移协调器] 警告: 清理条目 '%s' 的源端载荷失败（已登记待重试）: %v", item.ID, err)
		c.registerStalePayload(ctx, &snapshot)
	}
	return nil
}

// registerStalePayload 把清理失败的源端对象登记下来，交给后台任务重试。
func (c *Coordinator) registerStalePayload(ctx context.Context, snapshot *model.ContentItem) {
	if snapshot.StorageType != constant.StorageTypeObject || snapshot.Locator.Key == "" {
		return
	}
	err := c.staleRepo.Create(ctx, &repository.StalePayload{
		ItemID:   snapshot.ID,
		ItemType: string(snapshot.Type),
		Bucket:   snapshot.Locator.Bucket,
		Key:      snapshot.Locator.Key,
	})
	if err != nil {
		log.Printf("[迁移协调器] 警告: 登记残留载荷 '%s' 失败: %v", snapshot.Locator.Key, err)
	}
}

// BatchMigrate 按固定批次迁移一组条目。批内各条目并发、互不影响：
// 单个条目失败不会取消同批的其他条目（结算全部，然后继续下一批）。
// 每个条目此刻的后端在迁移前逐个查询，不做批次级快照。
// 聚合结果中每个输入条目恰好出现一次，Success 与 Failed 之和等于条目数。
func (c *Coordinator) BatchMigrate(
	ctx context.Context,
	items []model.MigrateItem,
	to constant.StorageType,
	batchSize int,
) (*model.BatchMigrateResult, error) {
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: 无效的目标存储类型 '%s'", constant.ErrBadRequest, to)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	result := &model.BatchMigrateResult{Failed: make([]model.BatchMigrateFailure, 0)}
	var mu sync.Mutex

	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		var wg sync.WaitGroup
		for _, it := range batch {
			wg.Add(1)
			go func(it model.MigrateItem) {
				defer wg.Done()
				err := c.MigrateToTarget(ctx, it, to)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed = append(result.Failed, model.BatchMigrateFailure{
						ID:    it.ID,
						Type:  string(it.Type),
						Error: err.Error(),
					})
				} else {
					result.Success++
				}
			}(it)
		}
		wg.Wait()
	}

	log.Printf("[迁移协调器] 批量迁移完成: 共 %d 条，成功 %d 条，失败 %d 条",
		len(items), result.Success, len(result.Failed))
	return result, nil
}
