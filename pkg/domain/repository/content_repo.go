/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-02 15:10:40
 * @LastEditTime: 2026-02-21 11:42:19
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
)

// ContentRepository 定义了内容条目数据仓库的接口。
type ContentRepository interface {
	// Create 创建一个内容条目壳（正文之外的列由外围系统维护），
	// 并为其分配公共ID（回写到入参）。主要供引导与测试使用。
	Create(ctx context.Context, item *model.ContentItem) error

	// FindByID 根据公共ID与条目类型获取内容条目。
	// 条目不存在或类型不符时返回 constant.ErrNotFound。
	FindByID(ctx context.Context, publicID string, contentType constant.ContentType) (*model.ContentItem, error)

	// UpdateStorage 原子地写入条目的存储指向：在同一条 UPDATE 中
	// 设置 storage_type、正文列与对象定位列。归属于未选中后端的那组字段
	// 必须同时被清空，保证任何观察时刻两组字段恰好只有一组持有内容。
	UpdateStorage(
		ctx context.Context,
		publicID string,
		contentType constant.ContentType,
		storageType constant.StorageType,
		body string,
		locator model.ObjectLocator,
	) error

	// CountByStorageType 按存储后端统计条目数量，供后台统计任务使用。
	CountByStorageType(ctx context.Context) (map[constant.StorageType]int, error)
}

// StalePayload 记录一次迁移成功后未能清理掉的源端对象载荷。
// 悬空的源载荷是可接受的代价，由后台任务择机重试删除。
type StalePayload struct {
	ID       uint
	ItemID   string
	ItemType string
	Bucket   string
	Key      string
}

// StalePayloadRepository 定义了迁移残留载荷的登记仓库。
type StalePayloadRepository interface {
	// Create 登记一条清理失败的残留载荷。
	Create(ctx context.Context, payload *StalePayload) error

	// ListAll 列出所有待清理的残留载荷。
	ListAll(ctx context.Context) ([]*StalePayload, error)

	// Delete 删除一条登记（在远端对象被成功清理之后调用）。
	Delete(ctx context.Context, id uint) error
}
