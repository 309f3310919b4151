package models

import "encoding/json"

// RawAgentResponse 后端 agent 返回的原始结构，字段都可能缺失或类型不符
type RawAgentResponse struct {
	Summary   string          // summary 字段，非字符串时取其文本形式
	ChartURLs []string        // chart_urls 数组，非数组时为空
	RawResult json.RawMessage // raw_result 原始 JSON，缺失时为 nil
	Body      json.RawMessage // 整个响应体
}

// NormalizedResult 规范化后可直接渲染的结果
type NormalizedResult struct {
	Summary     string          `json:"summary"`
	SummaryHTML string          `json:"summary_html"`
	ChartURLs   []string        `json:"chart_urls"`
	RawResult   json.RawMessage `json:"raw_result,omitempty"`
	RawText     string          `json:"raw_text,omitempty"`
}

// HasCharts 模板中判断是否展示图表区域
func (r *NormalizedResult) HasCharts() bool {
	return r != nil && len(r.ChartURLs) > 0
}
