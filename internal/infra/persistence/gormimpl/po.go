/*
 * @Description: GORM 持久化对象定义。与领域模型分离，列结构的变化不外泄到业务层。
 * @Author: 安知鱼
 * @Date: 2025-09-02 15:48:33
 * @LastEditTime: 2026-02-21 12:20:10
 * @LastEditors: 安知鱼
 */
package gormimpl

import (
	"time"
)

// MediaAssetPO 对应 media_assets 表，一行即一个已摄取的媒体资源。
// storage_type 决定内联列组与对象列组哪一组非空，两组互斥。
type MediaAssetPO struct {
	ID           uint   `gorm:"primaryKey"`
	Filename     string `gorm:"size:255;not null"`
	OriginalName string `gorm:"size:255;not null"`
	MimeType     string `gorm:"size:64;not null"`
	Size         int64  `gorm:"not null"`
	StorageType  string `gorm:"size:16;not null;default:inline;index"`

	// 内联列组
	PrimaryEncoded   *string `gorm:"type:text"`
	ThumbnailEncoded *string `gorm:"type:text"`

	// 对象存储列组
	Bucket      *string `gorm:"size:128"`
	ObjectKey   *string `gorm:"size:512"`
	ExternalURL *string `gorm:"size:1024"`

	Width            int
	Height           int
	Placeholder      string `gorm:"size:128"`
	CompressionRatio float64
	OptimizedSize    int64
	Alt              string `gorm:"size:512"`

	CreatedAt time.Time
}

func (MediaAssetPO) TableName() string { return "media_assets" }

// ContentItemPO 对应 content_items 表，承载文章/项目的正文存储指向。
type ContentItemPO struct {
	ID          uint   `gorm:"primaryKey"`
	Type        string `gorm:"size:16;not null;index:idx_content_type"`
	Title       string `gorm:"size:255"`
	StorageType string `gorm:"size:16;not null;default:inline"`

	// 内联列组
	Body *string `gorm:"type:text"`

	// 对象存储列组
	Bucket    *string `gorm:"size:128"`
	ObjectKey *string `gorm:"size:512"`
	ObjectURL *string `gorm:"size:1024"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ContentItemPO) TableName() string { return "content_items" }

// StalePayloadPO 对应 stale_payloads 表，登记迁移后未清理成功的源端对象。
type StalePayloadPO struct {
	ID        uint   `gorm:"primaryKey"`
	ItemID    string `gorm:"size:64;not null"`
	ItemType  string `gorm:"size:16;not null"`
	Bucket    string `gorm:"size:128"`
	Key       string `gorm:"size:512;column:object_key"`
	CreatedAt time.Time
}

func (StalePayloadPO) TableName() string { return "stale_payloads" }

// AllModels 返回需要自动迁移的全部持久化对象。
func AllModels() []interface{} {
	return []interface{}{
		&MediaAssetPO{},
		&ContentItemPO{},
		&StalePayloadPO{},
	}
}
