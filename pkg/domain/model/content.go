/*
 * @Description: 长文内容条目的核心领域模型与迁移相关的数据传输对象
 * @Author: 安知鱼
 * @Date: 2025-09-02 14:40:12
 * @LastEditTime: 2026-02-21 11:18:03
 * @LastEditors: 安知鱼
 */
package model

import (
	"time"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
)

// --- 核心领域对象 (Domain Object) ---

// ObjectLocator 是对象存储载荷的定位信息。
type ObjectLocator struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

// ContentItem 抽象了文章与项目的长文正文载体。
// 不变量：Body 与 Locator 两组字段在任一时刻恰好只有一组持有内容，
// 由 StorageType 指明是哪一组；迁移操作必须原子地完成切换。
type ContentItem struct {
	ID          string // 公共ID
	Type        constant.ContentType
	Title       string // 条目壳的展示字段，正文之外的列不属于本子系统
	StorageType constant.StorageType

	// 内联组：StorageType 为 inline 时填充
	Body string

	// 对象存储组：StorageType 为 object 时填充
	Locator ObjectLocator

	CreatedAt time.Time
	UpdatedAt time.Time
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// SaveContentRequest 定义了保存内容正文的请求体
type SaveContentRequest struct {
	Body string `json:"body"`
}

// SaveResult 是一次保存操作的结果。
// Warnings 是软警告通道：保存成功但内容存在可疑之处（如未闭合的代码围栏），
// 与硬性失败通道严格分离，调用方可以断言"成功且带警告"。
type SaveResult struct {
	Warnings []string `json:"warnings"`
}

// ContentItemResponse 是内容条目的公开元数据视图（不含正文）。
type ContentItemResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	StorageType string    `json:"storage_type"`
	UpdatedAt   time.Time `json:"updated_at"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// MigrateItem 标识批量迁移中的一个条目。
type MigrateItem struct {
	ID   string               `json:"id" binding:"required"`
	Type constant.ContentType `json:"type" binding:"required"`
}

// MigrateRequest 定义了单条迁移的请求体。
// From 可选：给出时作为对源后端的断言，与条目当前状态不符则迁移被拒绝；
// 省略时以条目此刻的存储类型为源。
type MigrateRequest struct {
	ID   string               `json:"id" binding:"required"`
	Type constant.ContentType `json:"type" binding:"required"`
	From constant.StorageType `json:"from"`
	To   constant.StorageType `json:"to" binding:"required"`
}

// BatchMigrateRequest 定义了批量迁移的请求体
type BatchMigrateRequest struct {
	Items     []MigrateItem        `json:"items" binding:"required"`
	To        constant.StorageType `json:"to" binding:"required"`
	BatchSize int                  `json:"batch_size"`
}

// BatchMigrateFailure 记录批量迁移中单个条目的失败原因。
type BatchMigrateFailure struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Error string `json:"error"`
}

// BatchMigrateResult 是批量迁移的聚合结果。
// 每个输入条目恰好贡献一个结果：要么计入 Success，要么出现在 Failed 中。
type BatchMigrateResult struct {
	Success int                   `json:"success"`
	Failed  []BatchMigrateFailure `json:"failed"`
}
