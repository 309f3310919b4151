package util

import (
	"strings"

	"github.com/tidwall/pretty"
)

// CompactJSON 去掉 JSON 中多余的空白
func CompactJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	return strings.TrimSpace(string(pretty.Ugly(raw)))
}

// IndentJSON 两个空格缩进，用于原始结果展示
func IndentJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	return strings.TrimSpace(string(pretty.Pretty(raw)))
}
