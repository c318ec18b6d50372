/*
 * @Description: 内联存储后端：正文文本直接存放在内容条目记录的列中。
 * @Author: 安知鱼
 * @Date: 2025-09-03 14:30:08
 * @LastEditTime: 2026-02-22 10:52:14
 * @LastEditors: 安知鱼
 */
package content

import (
	"context"
	"fmt"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
)

// InlineBackend 实现了 StorageBackend 接口，把正文写进记录本身。
type InlineBackend struct {
	contentRepo repository.ContentRepository
}

// NewInlineBackend 是 InlineBackend 的构造函数。
func NewInlineBackend(contentRepo repository.ContentRepository) *InlineBackend {
	return &InlineBackend{contentRepo: contentRepo}
}

func (b *InlineBackend) Type() constant.StorageType {
	return constant.StorageTypeInline
}

// Save 通过一条 UPDATE 同时写入正文列并把 storage_type 翻转为 inline，
// 对象存储组的列在同一语句中被清空。写入与翻转之间不存在可观察的中间态。
func (b *InlineBackend) Save(ctx context.Context, item *model.ContentItem, body string) error {
	return b.contentRepo.UpdateStorage(
		ctx, item.ID, item.Type,
		constant.StorageTypeInline, body, model.ObjectLocator{},
	)
}

func (b *InlineBackend) Get(ctx context.Context, item *model.ContentItem) (string, error) {
	if item.StorageType != constant.StorageTypeInline {
		return "", fmt.Errorf("%w: 条目 '%s' 当前的存储类型是 '%s'，却查询了内联后端",
			constant.ErrStorageTypeMismatch, item.ID, item.StorageType)
	}
	if item.Body == "" {
		return "", fmt.Errorf("%w: 条目 '%s' 的内联正文缺失", constant.ErrEmptyContent, item.ID)
	}
	return item.Body, nil
}

// Delete 对内联后端是空操作：正文列随存储指向的切换一并被清空，没有行外资源。
func (b *InlineBackend) Delete(ctx context.Context, item *model.ContentItem) error {
	return nil
}
