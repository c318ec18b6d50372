/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-02 15:02:18
 * @LastEditTime: 2026-02-21 11:30:55
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
)

// MediaRepository 定义了媒体资源数据仓库的接口。
// 它是数据持久化层的抽象，所有方法都使用领域模型，与具体的 ORM (GORM) 解耦。
type MediaRepository interface {
	// Create 持久化一条新的媒体记录，并为其分配公共ID（回写到入参）。
	Create(ctx context.Context, asset *model.MediaAsset) error

	// FindByID 根据公共ID获取单条媒体记录，不存在时返回 constant.ErrNotFound。
	FindByID(ctx context.Context, publicID string) (*model.MediaAsset, error)

	// UpdateAlt 更新媒体记录的描述文本，这是记录中唯一可变的字段。
	UpdateAlt(ctx context.Context, publicID string, alt string) (*model.MediaAsset, error)

	// Delete 删除媒体记录本身。远端对象的清理由上层服务负责。
	Delete(ctx context.Context, publicID string) error

	// List 分页查询媒体记录，按创建时间倒序。
	List(ctx context.Context, options *model.ListMediaOptions) ([]*model.MediaAsset, int, error)
}
