/*
 * @Description: 媒体资源的核心领域模型与数据传输对象
 * @Author: 安知鱼
 * @Date: 2025-09-02 14:21:30
 * @LastEditTime: 2026-02-21 11:05:44
 * @LastEditors: 安知鱼
 */
package model

import (
	"time"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
)

// --- 核心领域对象 (Domain Object) ---

// MediaAsset 是一次成功摄取所产生的媒体资源记录。
// 记录按 StorageType 二选一地填充内联组或对象存储组，两组字段互斥。
type MediaAsset struct {
	ID           string // 对外暴露的公共ID，创建时生成，不可变
	Filename     string // 存储用文件名，摄取时生成
	OriginalName string // 上传时的原始文件名
	MimeType     string
	Size         int64 // 原始字节长度
	CreatedAt    time.Time

	// StorageType 决定下面哪一组字段被填充
	StorageType constant.StorageType

	// 内联存储组：优化后的主图与缩略图字节，base64 文本编码
	PrimaryEncoded   string
	ThumbnailEncoded string

	// 对象存储组：远端对象的定位信息
	Bucket      string
	ObjectKey   string
	ExternalURL string

	// 派生元数据
	Width            int     // 缩放后的像素宽度，矢量格式为 0
	Height           int     // 缩放后的像素高度，矢量格式为 0
	Placeholder      string  // 感知哈希占位符，用于低清预览
	CompressionRatio float64 // 优化后/原始 字节比，可能大于 1
	OptimizedSize    int64   // 优化后主图的字节长度

	// Alt 是唯一可变的字段，用户可编辑的描述文本
	Alt string
}

// IsInline 判断该资源的载荷是否内联存放在数据库中。
func (m *MediaAsset) IsInline() bool {
	return m.StorageType == constant.StorageTypeInline
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// MediaAssetResponse 是媒体资源对外的公开视图。
// 内联编码的载荷绝不直接返回给一般读取方，由 serve 接口按需解码流出。
type MediaAssetResponse struct {
	ID               string    `json:"id"`
	URL              string    `json:"url"`
	OriginalName     string    `json:"original_name"`
	MimeType         string    `json:"mime_type"`
	Size             int64     `json:"size"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Alt              string    `json:"alt"`
	Placeholder      string    `json:"placeholder"`
	CompressionRatio float64   `json:"compression_ratio"`
	OptimizedSize    int64     `json:"optimized_size"`
	StorageType      string    `json:"storage_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewMediaAssetResponse 把领域模型转换为公开视图。
func NewMediaAssetResponse(m *MediaAsset) *MediaAssetResponse {
	url := "/api/media/" + m.ID + "/serve"
	if m.StorageType == constant.StorageTypeObject && m.ExternalURL != "" {
		url = m.ExternalURL
	}
	return &MediaAssetResponse{
		ID:               m.ID,
		URL:              url,
		OriginalName:     m.OriginalName,
		MimeType:         m.MimeType,
		Size:             m.Size,
		Width:            m.Width,
		Height:           m.Height,
		Alt:              m.Alt,
		Placeholder:      m.Placeholder,
		CompressionRatio: m.CompressionRatio,
		OptimizedSize:    m.OptimizedSize,
		StorageType:      string(m.StorageType),
		CreatedAt:        m.CreatedAt,
	}
}

// UpdateMediaAltRequest 定义了更新媒体描述文本的请求体
type UpdateMediaAltRequest struct {
	Alt string `json:"alt" binding:"required"`
}

// ListMediaOptions 定义了媒体列表的分页查询选项
type ListMediaOptions struct {
	Page     int
	PageSize int
}

// MediaListResponse 定义了媒体列表的返回结构
type MediaListResponse struct {
	List  []*MediaAssetResponse `json:"list"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
}
