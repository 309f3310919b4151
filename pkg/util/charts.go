package util

import (
	"net/url"
	"strings"
)

// ChartPrefix 图表静态资源的路径前缀
const ChartPrefix = "/static/charts/"

// NormalizeChartPath 将 charts/a.png、static/charts/a.png、/charts/a.png 统一为 /static/charts/a.png
// 带协议和主机的绝对地址只保留路径部分
func NormalizeChartPath(p string) string {
	rest := strings.TrimSpace(p)
	if u, err := url.Parse(rest); err == nil && u.Scheme != "" && u.Host != "" {
		rest = u.Path
	}
	for {
		trimmed := strings.TrimLeft(rest, "/")
		if hasPrefixFold(trimmed, "static/") {
			trimmed = trimmed[len("static/"):]
		}
		if trimmed == rest {
			break
		}
		rest = trimmed
	}
	if hasPrefixFold(rest, "charts/") {
		rest = rest[len("charts/"):]
	}
	return ChartPrefix + rest
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
