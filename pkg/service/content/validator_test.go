package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(100)

	tests := []struct {
		name         string
		body         string
		wantRules    int
		wantWarnings int
	}{
		{name: "正常内容", body: "# 标题\n\n正文。", wantRules: 0, wantWarnings: 0},
		{name: "空内容", body: "", wantRules: 1, wantWarnings: 0},
		{name: "纯空白内容", body: "   \n\t  ", wantRules: 1, wantWarnings: 0},
		{name: "超长内容", body: strings.Repeat("a", 101), wantRules: 1, wantWarnings: 0},
		{name: "闭合的代码围栏", body: "```go\ncode\n```", wantRules: 0, wantWarnings: 0},
		{name: "未闭合的代码围栏", body: "```go\ncode", wantRules: 0, wantWarnings: 1},
		{name: "完整的front-matter", body: "---\ntitle: x\n---\n正文", wantRules: 0, wantWarnings: 0},
		{name: "未结束的front-matter", body: "---\ntitle: x\n正文", wantRules: 0, wantWarnings: 1},
		{name: "中途出现的三连横线不算front-matter", body: "正文\n---\n还是正文", wantRules: 0, wantWarnings: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, warnings := v.Validate(tt.body)
			assert.Len(t, rules, tt.wantRules)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestValidator_HardRulesSuppressWarnings(t *testing.T) {
	v := NewValidator(10)

	// 既超长又有未闭合围栏：硬规则阻断时不再报软警告
	rules, warnings := v.Validate(strings.Repeat("`", 33))
	assert.NotEmpty(t, rules)
	assert.Empty(t, warnings)
}
