/*
 * @Description: 媒体与内容存储子系统的标准业务错误定义
 * @Author: 安知鱼
 * @Date: 2025-09-02 10:12:45
 * @LastEditTime: 2026-01-09 18:40:12
 * @LastEditors: 安知鱼
 */
package constant

import (
	"errors"
	"strings"
)

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrConflict 表示资源冲突，可以由 Handler 转换为 409
	ErrConflict = errors.New("资源冲突")

	// ErrInternalServer 表示服务器内部错误，可以由 Handler 转换为 500
	ErrInternalServer = errors.New("内部服务器错误")

	// ErrValidation 表示输入校验失败，具体违反的规则由 ValidationError 携带
	ErrValidation = errors.New("校验失败")

	// ErrDecode 表示图片字节无法被解码器解析，摄取流程必须中止且不产生任何记录
	ErrDecode = errors.New("图片解码失败")

	// ErrBackendUnavailable 表示存储后端尚未实现或永久不可用。
	// 这是对象存储后端的一种合法的、预期内的失败模式，不应与瞬时故障混淆。
	ErrBackendUnavailable = errors.New("存储后端不可用")

	// ErrStorageTypeMismatch 表示记录的存储类型与被查询的后端不一致。
	// 这是调用方选错后端的程序缺陷，必须与"资源未找到"区分开。
	ErrStorageTypeMismatch = errors.New("存储类型不匹配")

	// ErrEmptyContent 表示后端读取成功但载荷为空，属于数据异常
	ErrEmptyContent = errors.New("内容载荷为空")

	// ErrMigration 表示迁移操作失败，记录保持迁移前状态，调用方可安全重试
	ErrMigration = errors.New("存储迁移失败")
)

// ValidationError 携带一次校验中违反的全部规则。
// 通过 errors.Is(err, ErrValidation) 可以与其他错误类别区分。
type ValidationError struct {
	Rules []string
}

func (e *ValidationError) Error() string {
	return "校验失败: " + strings.Join(e.Rules, "; ")
}

// Is 使 ValidationError 能够匹配 ErrValidation 哨兵错误。
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError 构造一个携带规则列表的校验错误。
func NewValidationError(rules ...string) *ValidationError {
	return &ValidationError{Rules: rules}
}
