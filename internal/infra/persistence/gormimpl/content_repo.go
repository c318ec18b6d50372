/*
 * @Description: ContentRepository 与 StalePayloadRepository 的 GORM 实现
 * @Author: 安知鱼
 * @Date: 2025-09-02 16:30:54
 * @LastEditTime: 2026-02-21 13:05:28
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

type gormContentRepository struct {
	db *gorm.DB
}

// NewGormContentRepository 是 ContentRepository 的 GORM 实现的构造函数。
func NewGormContentRepository(db *gorm.DB) repository.ContentRepository {
	return &gormContentRepository{db: db}
}

// decodeContentID 解码公共ID并校验其实体类型与条目类型一致。
func decodeContentID(publicID string, contentType constant.ContentType) (uint, error) {
	expected, err := idgen.EntityTypeForContent(string(contentType))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", constant.ErrBadRequest, err)
	}
	dbID, entityType, err := idgen.DecodePublicID(publicID)
	if err != nil || entityType != expected {
		return 0, fmt.Errorf("%w: 无效的内容ID '%s' (类型 %s)", constant.ErrNotFound, publicID, contentType)
	}
	return dbID, nil
}

func toDomainContent(po *ContentItemPO) (*model.ContentItem, error) {
	entityType, err := idgen.EntityTypeForContent(po.Type)
	if err != nil {
		return nil, err
	}
	publicID, err := idgen.GeneratePublicID(po.ID, entityType)
	if err != nil {
		return nil, fmt.Errorf("为内容条目 %d 生成公共ID失败: %w", po.ID, err)
	}
	return &model.ContentItem{
		ID:          publicID,
		Type:        constant.ContentType(po.Type),
		Title:       po.Title,
		StorageType: constant.StorageType(po.StorageType),
		Body:        strVal(po.Body),
		Locator: model.ObjectLocator{
			Bucket: strVal(po.Bucket),
			Key:    strVal(po.ObjectKey),
			URL:    strVal(po.ObjectURL),
		},
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}, nil
}

func (r *gormContentRepository) Create(ctx context.Context, item *model.ContentItem) error {
	if !item.Type.IsValid() {
		return fmt.Errorf("%w: 无效的内容条目类型 '%s'", constant.ErrBadRequest, item.Type)
	}
	storageType := item.StorageType
	if storageType == "" {
		storageType = constant.StorageTypeInline
	}

	po := &ContentItemPO{
		Type:        string(item.Type),
		Title:       item.Title,
		StorageType: string(storageType),
		Body:        strPtr(item.Body),
		Bucket:      strPtr(item.Locator.Bucket),
		ObjectKey:   strPtr(item.Locator.Key),
		ObjectURL:   strPtr(item.Locator.URL),
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("创建内容条目失败: %w", err)
	}

	entityType, _ := idgen.EntityTypeForContent(po.Type)
	publicID, err := idgen.GeneratePublicID(po.ID, entityType)
	if err != nil {
		return fmt.Errorf("为新内容条目生成公共ID失败: %w", err)
	}
	item.ID = publicID
	item.StorageType = storageType
	item.CreatedAt = po.CreatedAt
	item.UpdatedAt = po.UpdatedAt
	return nil
}

func (r *gormContentRepository) FindByID(ctx context.Context, publicID string, contentType constant.ContentType) (*model.ContentItem, error) {
	dbID, err := decodeContentID(publicID, contentType)
	if err != nil {
		return nil, err
	}

	var po ContentItemPO
	err = r.db.WithContext(ctx).
		Where("id = ? AND type = ?", dbID, string(contentType)).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 内容条目 '%s' (类型 %s) 不存在", constant.ErrNotFound, publicID, contentType)
		}
		return nil, fmt.Errorf("查询内容条目 '%s' 失败: %w", publicID, err)
	}
	return toDomainContent(&po)
}

// UpdateStorage 以单条 UPDATE 切换存储指向。
// 载荷列与 storage_type 同语句落库，未选中后端的那组列被置 NULL，
// 不存在"指针已翻转而载荷缺失"的可观察中间态。
func (r *gormContentRepository) UpdateStorage(
	ctx context.Context,
	publicID string,
	contentType constant.ContentType,
	storageType constant.StorageType,
	body string,
	locator model.ObjectLocator,
) error {
	dbID, err := decodeContentID(publicID, contentType)
	if err != nil {
		return err
	}
	if !storageType.IsValid() {
		return fmt.Errorf("%w: 无效的存储类型 '%s'", constant.ErrBadRequest, storageType)
	}

	updates := map[string]interface{}{
		"storage_type": string(storageType),
		"body":         nil,
		"bucket":       nil,
		"object_key":   nil,
		"object_url":   nil,
	}
	switch storageType {
	case constant.StorageTypeInline:
		updates["body"] = body
	case constant.StorageTypeObject:
		updates["bucket"] = locator.Bucket
		updates["object_key"] = locator.Key
		updates["object_url"] = locator.URL
	}

	result := r.db.WithContext(ctx).
		Model(&ContentItemPO{}).
		Where("id = ? AND type = ?", dbID, string(contentType)).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("更新内容条目存储指向失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: 内容条目 '%s' (类型 %s) 不存在", constant.ErrNotFound, publicID, contentType)
	}
	return nil
}

func (r *gormContentRepository) CountByStorageType(ctx context.Context) (map[constant.StorageType]int, error) {
	type row struct {
		StorageType string
		Count       int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&ContentItemPO{}).
		Select("storage_type, COUNT(*) as count").
		Group("storage_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("按存储类型统计内容条目失败: %w", err)
	}

	counts := make(map[constant.StorageType]int, len(rows))
	for _, r := range rows {
		counts[constant.StorageType(r.StorageType)] = r.Count
	}
	return counts, nil
}

// --- StalePayloadRepository ---

type gormStalePayloadRepository struct {
	db *gorm.DB
}

// NewGormStalePayloadRepository 是 StalePayloadRepository 的 GORM 实现的构造函数。
func NewGormStalePayloadRepository(db *gorm.DB) repository.StalePayloadRepository {
	return &gormStalePayloadRepository{db: db}
}

func (r *gormStalePayloadRepository) Create(ctx context.Context, payload *repository.StalePayload) error {
	po := &StalePayloadPO{
		ItemID:   payload.ItemID,
		ItemType: payload.ItemType,
		Bucket:   payload.Bucket,
		Key:      payload.Key,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("登记残留载荷失败: %w", err)
	}
	payload.ID = po.ID
	return nil
}

func (r *gormStalePayloadRepository) ListAll(ctx context.Context) ([]*repository.StalePayload, error) {
	var pos []StalePayloadPO
	if err := r.db.WithContext(ctx).Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("查询残留载荷列表失败: %w", err)
	}
	payloads := make([]*repository.StalePayload, 0, len(pos))
	for i := range pos {
		payloads = append(payloads, &repository.StalePayload{
			ID:       pos[i].ID,
			ItemID:   pos[i].ItemID,
			ItemType: pos[i].ItemType,
			Bucket:   pos[i].Bucket,
			Key:      pos[i].Key,
		})
	}
	return payloads, nil
}

func (r *gormStalePayloadRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&StalePayloadPO{}, id).Error; err != nil {
		return fmt.Errorf("删除残留载荷登记失败: %w", err)
	}
	return nil
}
