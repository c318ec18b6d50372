/*
 * @Description: ID 生成和解码服务
 * @Author: 安知鱼
 * @Date: 2025-09-02 11:05:33
 * @LastEditTime: 2026-01-20 09:41:02
 * @LastEditors: 安知鱼
 */
package idgen

import (
	"fmt"

	"github.com/sqids/sqids-go"
)

// sqidsEncoder 是用于生成和解码短 ID 的 Sqids 编码器实例。
var sqidsEncoder *sqids.Sqids

// DefaultAlphabet 是默认的字母表
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// EntityType 定义了不同实体在生成公共 ID 时的类型标识。
const (
	EntityTypeMedia   uint64 = 1 // 媒体资源实体的类型标识
	EntityTypePost    uint64 = 2 // 文章内容实体的类型标识
	EntityTypeProject uint64 = 3 // 项目内容实体的类型标识
)

// InitSqidsEncoder 初始化 Sqids 编码器。
func InitSqidsEncoder() error {
	s, err := sqids.New(
		sqids.Options{
			MinLength: 4,
			Alphabet:  DefaultAlphabet,
		},
	)
	if err != nil {
		return fmt.Errorf("初始化 Sqids 编码器失败: %w", err)
	}
	sqidsEncoder = s
	return nil
}

// GeneratePublicID 将数据库自增 ID 与实体类型标识编码为对外暴露的公共 ID。
func GeneratePublicID(dbID uint, entityType uint64) (string, error) {
	if sqidsEncoder == nil {
		return "", fmt.Errorf("Sqids 编码器未初始化")
	}

	id, err := sqidsEncoder.Encode([]uint64{uint64(dbID), entityType})
	if err != nil {
		return "", fmt.Errorf("编码公共ID失败: %w", err)
	}
	return id, nil
}

// DecodePublicID 解码公共 ID
func DecodePublicID(publicID string) (dbID uint, entityType uint64, err error) {
	if sqidsEncoder == nil {
		return 0, 0, fmt.Errorf("Sqids 编码器未初始化")
	}

	numbers := sqidsEncoder.Decode(publicID)
	if len(numbers) != 2 {
		return 0, 0, fmt.Errorf("无法从公共ID解码出预期数量的数字(期望2个，得到%d个)", len(numbers))
	}
	return uint(numbers[0]), numbers[1], nil
}

// EntityTypeForContent 返回内容条目类型对应的实体类型标识。
func EntityTypeForContent(contentType string) (uint64, error) {
	switch contentType {
	case "post":
		return EntityTypePost, nil
	case "project":
		return EntityTypeProject, nil
	default:
		return 0, fmt.Errorf("未知的内容条目类型: %s", contentType)
	}
}
