/*
 * @Description: MediaRepository 的 GORM 实现
 * @Author: 安知鱼
 * @Date: 2025-09-02 16:05:21
 * @LastEditTime: 2026-02-21 12:41:37
 * @LastEditors: 安知鱼
 */
package gormimpl

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
	"github.com/anzhiyu-c/aurora-app/pkg/idgen"
)

type gormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository 是 MediaRepository 的 GORM 实现的构造函数。
func NewGormMediaRepository(db *gorm.DB) repository.MediaRepository {
	return &gormMediaRepository{db: db}
}

// strPtr 把非空字符串转换为指针，空串映射为 NULL。
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// toDomainMedia 把持久化对象转换为领域模型。
func toDomainMedia(po *MediaAssetPO) (*model.MediaAsset, error) {
	publicID, err := idgen.GeneratePublicID(po.ID, idgen.EntityTypeMedia)
	if err != nil {
		return nil, fmt.Errorf("为媒体记录 %d 生成公共ID失败: %w", po.ID, err)
	}
	return &model.MediaAsset{
		ID:               publicID,
		Filename:         po.Filename,
		OriginalName:     po.OriginalName,
		MimeType:         po.MimeType,
		Size:             po.Size,
		StorageType:      constant.StorageType(po.StorageType),
		PrimaryEncoded:   strVal(po.PrimaryEncoded),
		ThumbnailEncoded: strVal(po.ThumbnailEncoded),
		Bucket:           strVal(po.Bucket),
		ObjectKey:        strVal(po.ObjectKey),
		ExternalURL:      strVal(po.ExternalURL),
		Width:            po.Width,
		Height:           po.Height,
		Placeholder:      po.Placeholder,
		CompressionRatio: po.CompressionRatio,
		OptimizedSize:    po.OptimizedSize,
		Alt:              po.Alt,
		CreatedAt:        po.CreatedAt,
	}, nil
}

// decodeMediaID 解码公共ID并校验实体类型标识。
func decodeMediaID(publicID string) (uint, error) {
	dbID, entityType, err := idgen.DecodePublicID(publicID)
	if err != nil || entityType != idgen.EntityTypeMedia {
		return 0, fmt.Errorf("%w: 无效的媒体ID '%s'", constant.ErrNotFound, publicID)
	}
	return dbID, nil
}

func (r *gormMediaRepository) Create(ctx context.Context, asset *model.MediaAsset) error {
	po := &MediaAssetPO{
		Filename:         asset.Filename,
		OriginalName:     asset.OriginalName,
		MimeType:         asset.MimeType,
		Size:             asset.Size,
		StorageType:      string(asset.StorageType),
		PrimaryEncoded:   strPtr(asset.PrimaryEncoded),
		ThumbnailEncoded: strPtr(asset.ThumbnailEncoded),
		Bucket:           strPtr(asset.Bucket),
		ObjectKey:        strPtr(asset.ObjectKey),
		ExternalURL:      strPtr(asset.ExternalURL),
		Width:            asset.Width,
		Height:           asset.Height,
		Placeholder:      asset.Placeholder,
		CompressionRatio: asset.CompressionRatio,
		OptimizedSize:    asset.OptimizedSize,
		Alt:              asset.Alt,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("创建媒体记录失败: %w", err)
	}

	publicID, err := idgen.GeneratePublicID(po.ID, idgen.EntityTypeMedia)
	if err != nil {
		return fmt.Errorf("为新媒体记录生成公共ID失败: %w", err)
	}
	asset.ID = publicID
	asset.CreatedAt = po.CreatedAt
	return nil
}

func (r *gormMediaRepository) FindByID(ctx context.Context, publicID string) (*model.MediaAsset, error) {
	dbID, err := decodeMediaID(publicID)
	if err != nil {
		return nil, err
	}

	var po MediaAssetPO
	if err := r.db.WithContext(ctx).First(&po, dbID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 媒体记录 '%s' 不存在", constant.ErrNotFound, publicID)
		}
		return nil, fmt.Errorf("查询媒体记录 '%s' 失败: %w", publicID, err)
	}
	return toDomainMedia(&po)
}

func (r *gormMediaRepository) UpdateAlt(ctx context.Context, publicID string, alt string) (*model.MediaAsset, error) {
	dbID, err := decodeMediaID(publicID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&MediaAssetPO{}).Where("id = ?", dbID).Update("alt", alt)
	if result.Error != nil {
		return nil, fmt.Errorf("更新媒体描述失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: 媒体记录 '%s' 不存在", constant.ErrNotFound, publicID)
	}
	return r.FindByID(ctx, publicID)
}

func (r *gormMediaRepository) Delete(ctx context.Context, publicID string) error {
	dbID, err := decodeMediaID(publicID)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&MediaAssetPO{}, dbID)
	if result.Error != nil {
		return fmt.Errorf("删除媒体记录失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: 媒体记录 '%s' 不存在", constant.ErrNotFound, publicID)
	}
	return nil
}

func (r *gormMediaRepository) List(ctx context.Context, options *model.ListMediaOptions) ([]*model.MediaAsset, int, error) {
	page := options.Page
	if page < 1 {
		page = 1
	}
	pageSize := options.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&MediaAssetPO{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计媒体记录总数失败: %w", err)
	}

	var pos []MediaAssetPO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询媒体列表失败: %w", err)
	}

	assets := make([]*model.MediaAsset, 0, len(pos))
	for i := range pos {
		asset, convErr := toDomainMedia(&pos[i])
		if convErr != nil {
			return nil, 0, convErr
		}
		assets = append(assets, asset)
	}
	return assets, int(total), nil
}
