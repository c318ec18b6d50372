/*
 * @Description: 内容存储后端的能力接口与按记录选择后端的工厂。
 * @Author: 安知鱼
 * @Date: 2025-09-03 14:05:36
 * @LastEditTime: 2026-02-22 10:40:21
 * @LastEditors: 安知鱼
 */
package content

import (
	"context"
	"fmt"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
)

// StorageBackend 是内容载荷存储策略的封闭能力集合，恰好两个变体：内联与对象存储。
// 后端总是依据归属记录当前的 storageType 逐次选定，绝不依赖环境默认值。
type StorageBackend interface {
	// Type 返回该后端对应的存储类型。
	Type() constant.StorageType

	// Save 把正文写入该后端，并在同一原子步骤内把记录的 storageType
	// 与存储指向字段翻转到该后端。成功返回后记录即指向已持久化的载荷。
	Save(ctx context.Context, item *model.ContentItem, body string) error

	// Get 从该后端读取正文。记录的 storageType 与本后端不一致时返回
	// constant.ErrStorageTypeMismatch；载荷缺失时返回 constant.ErrEmptyContent。
	Get(ctx context.Context, item *model.ContentItem) (string, error)

	// Delete 清理该后端在行外持有的资源。内联后端无事可做；
	// 对象后端删除远端对象。调用方决定失败是否致命。
	Delete(ctx context.Context, item *model.ContentItem) error
}

// BackendResolver 按存储类型解析出对应的后端实例。
type BackendResolver interface {
	Resolve(storageType constant.StorageType) (StorageBackend, error)
}

// backendFactory 是 BackendResolver 的标准实现，持有两个后端单例。
// 进程启动时装配一次，之后按记录字段逐次分发。
type backendFactory struct {
	inline StorageBackend
	object StorageBackend
}

// NewBackendFactory 是 backendFactory 的构造函数。
func NewBackendFactory(inline, object StorageBackend) BackendResolver {
	return &backendFactory{inline: inline, object: object}
}

func (f *backendFactory) Resolve(storageType constant.StorageType) (StorageBackend, error) {
	switch storageType {
	case constant.StorageTypeInline:
		return f.inline, nil
	case constant.StorageTypeObject:
		return f.object, nil
	default:
		return nil, fmt.Errorf("%w: 未知的存储类型 '%s'", constant.ErrBadRequest, storageType)
	}
}
