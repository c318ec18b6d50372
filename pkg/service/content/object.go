/*
 * @Description: 对象存储后端。读写路径尚未实现，作为明确的、永久性的
 *               BackendUnavailable 失败模式存在；向它迁移是既定的演进方向。
 *               删除路径是完整的：迁出后的残留对象需要它来清理。
 * @Author: 安知鱼
 * @Date: 2025-09-03 14:50:42
 * @LastEditTime: 2026-02-22 11:08:37
 * @LastEditors: 安知鱼
 */
package content

import (
	"context"
	"fmt"

	"github.com/anzhiyu-c/aurora-app/internal/infra/storage"
	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
)

// ObjectBackend 实现了 StorageBackend 接口，正文载荷放在外部对象存储。
type ObjectBackend struct {
	provider storage.IObjectProvider
}

// NewObjectBackend 是 ObjectBackend 的构造函数。
func NewObjectBackend(provider storage.IObjectProvider) *ObjectBackend {
	return &ObjectBackend{provider: provider}
}

func (b *ObjectBackend) Type() constant.StorageType {
	return constant.StorageTypeObject
}

// Save 尚未实现。这不是缺陷，而是该后端当前的契约：
// 调用方应通过 errors.Is(err, constant.ErrBackendUnavailable) 做能力探测。
func (b *ObjectBackend) Save(ctx context.Context, item *model.ContentItem, body string) error {
	return fmt.Errorf("%w: 对象存储后端的写入尚未实现", constant.ErrBackendUnavailable)
}

// Get 尚未实现，同 Save。
func (b *ObjectBackend) Get(ctx context.Context, item *model.ContentItem) (string, error) {
	if item.StorageType != constant.StorageTypeObject {
		return "", fmt.Errorf("%w: 条目 '%s' 当前的存储类型是 '%s'，却查询了对象后端",
			constant.ErrStorageTypeMismatch, item.ID, item.StorageType)
	}
	return "", fmt.Errorf("%w: 对象存储后端的读取尚未实现", constant.ErrBackendUnavailable)
}

// Delete 删除条目在对象存储中的远端载荷。定位信息缺失时视为无事可做。
func (b *ObjectBackend) Delete(ctx context.Context, item *model.ContentItem) error {
	if item.Locator.Key == "" {
		return nil
	}
	if err := b.provider.Delete(ctx, item.Locator.Key); err != nil {
		return fmt.Errorf("删除条目 '%s' 的远端对象 '%s' 失败: %w", item.ID, item.Locator.Key, err)
	}
	return nil
}
