/*
 * @Description: 定义了对象存储驱动需要遵守的接口和公共结构
 * @Author: 安知鱼
 * @Date: 2025-09-03 09:15:40
 * @LastEditTime: 2026-02-21 13:30:18
 * @LastEditors: 安知鱼
 */
package storage

import (
	"context"
	"errors"
)

// ObjectInfo 封装了对象写入成功后的定位信息。
type ObjectInfo struct {
	Bucket string
	Key    string
	URL    string
}

// 定义一个错误，用于表示对象存储未配置
var ErrNotConfigured = errors.New("对象存储未配置")

// IObjectProvider 定义了对象存储提供者必须实现的接口。
// 媒体记录的远端对象删除、迁移残留载荷的清理都经由它完成。
type IObjectProvider interface {
	// Put 将字节写入指定对象键。
	Put(ctx context.Context, key string, data []byte, contentType string) (*ObjectInfo, error)
	// Get 读取指定对象键的全部字节。
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete 删除指定对象键的远端对象。
	Delete(ctx context.Context, key string) error
	// Exists 检查指定对象键是否存在。
	Exists(ctx context.Context, key string) (bool, error)
	// PublicURL 返回对象的可公开访问地址。
	PublicURL(key string) string
	// BucketName 返回当前配置的存储桶名。
	BucketName() string
}
