/*
 * @Description: 正文内容的保存前校验：硬规则阻断保存，软警告只提示不阻断。
 * @Author: 安知鱼
 * @Date: 2025-09-03 15:12:20
 * @LastEditTime: 2026-02-22 11:20:49
 * @LastEditors: 安知鱼
 */
package content

import (
	"fmt"
	"strings"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
)

// Validator 执行正文的保存前校验。
type Validator struct {
	maxSize int64
}

// NewValidator 是 Validator 的构造函数，maxSize 是正文字节数上限。
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = constant.DefaultMaxContentSize
	}
	return &Validator{maxSize: maxSize}
}

// Validate 返回违反的硬规则与软警告。
// 硬规则（空正文、超长）阻断保存；软警告（未闭合的代码围栏、
// 未结束的 front-matter 块）随保存结果一并返回，不阻断。
func (v *Validator) Validate(body string) (rules []string, warnings []string) {
	if strings.TrimSpace(body) == "" {
		rules = append(rules, "内容不能为空")
	}
	if int64(len(body)) > v.maxSize {
		rules = append(rules, fmt.Sprintf("内容大小超过上限 %d 字节", v.maxSize))
	}
	if len(rules) > 0 {
		return rules, nil
	}

	if strings.Count(body, "```")%2 != 0 {
		warnings = append(warnings, "代码围栏 ``` 的数量为奇数，可能存在未闭合的代码块")
	}
	if hasUnterminatedFrontMatter(body) {
		warnings = append(warnings, "front-matter 块以 --- 开始但没有找到结束标记")
	}
	return nil, warnings
}

// hasUnterminatedFrontMatter 检查以 --- 开头的 front-matter 块是否缺少结束行。
func hasUnterminatedFrontMatter(body string) bool {
	lines := strings.Split(body, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return false
	}
	for _, line := range lines[1:] {
		if trimmed := strings.TrimRight(line, "\r"); trimmed == "---" {
			return false
		}
	}
	return true
}
