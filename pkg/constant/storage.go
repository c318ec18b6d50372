/*
 * @Description: 存储后端类型与内容条目类型的定义
 * @Author: 安知鱼
 * @Date: 2025-09-02 10:30:11
 * @LastEditTime: 2026-02-18 16:22:40
 * @LastEditors: 安知鱼
 */
package constant

// StorageType 定义了内容/媒体载荷的存储后端类型，提供了更强的类型安全
type StorageType string

// 定义支持的存储后端类型常量。
// 后端是一个封闭集合：要么把载荷内联编码在主记录里，要么放在外部对象存储中。
const (
	// StorageTypeInline 表示载荷以文本编码直接存放在数据库记录的字段中
	StorageTypeInline StorageType = "inline"
	// StorageTypeObject 表示载荷存放在外部对象存储，记录中只保留 bucket/key/url 引用
	StorageTypeObject StorageType = "object"
)

// IsValid 检查给定的类型是否是受支持的存储后端类型
func (t StorageType) IsValid() bool {
	switch t {
	case StorageTypeInline, StorageTypeObject:
		return true
	default:
		return false
	}
}

// ContentType 定义了长文内容的归属条目类型
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeProject ContentType = "project"
)

// IsValid 检查给定的类型是否是受支持的内容条目类型
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypePost, ContentTypeProject:
		return true
	default:
		return false
	}
}

// 媒体摄取相关的默认限制
const (
	// DefaultMaxUploadSize 是上传文件的默认大小上限（5MB）
	DefaultMaxUploadSize = 5 * 1024 * 1024
	// DefaultMaxContentSize 是长文内容的默认大小上限（10MB）
	DefaultMaxContentSize = 10 * 1024 * 1024
)

// AllowedImageMimeTypes 是媒体摄取允许的 MIME 类型白名单
var AllowedImageMimeTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/webp":    true,
	"image/gif":     true,
	"image/svg+xml": true,
}
