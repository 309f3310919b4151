package services

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"stock-agent-web/internal/app/models"
	"stock-agent-web/internal/pkg/code"
	"stock-agent-web/pkg/util"
)

// 摘要短于该长度时认为信息量不足，改用 raw_result
const genericSummaryMinLen = 120

var (
	// agent 常见的开场白："I'm fetching…" / "I am analyzing…" / "OK," / "Sure"
	fillerSummaryRe = regexp.MustCompile(`(?i)^(?:(?:i['’]m|i am)\s+(?:fetching|analy[sz]ing|retrieving|getting|pulling|looking|checking|working|gathering)\b|ok(?:ay)?\b|sure\b)`)

	chartInTextRe = regexp.MustCompile(`/static/charts/[^\s"'()]+?\.png`)

	// raw_result 为对象时按顺序取第一个有值的字段
	rawTextFields = []string{"output", "final_answer", "message", "detail"}
)

// ParseAgentResponse 解析 agent 响应体，任何形状都不会报错
func ParseAgentResponse(body []byte) models.RawAgentResponse {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return models.RawAgentResponse{}
	}
	if !gjson.ValidBytes(trimmed) {
		// 旧版 /api/chat 直接返回文本，整体当作 raw_result
		quoted, _ := json.Marshal(string(trimmed))
		return models.RawAgentResponse{RawResult: quoted, Body: quoted}
	}

	root := gjson.ParseBytes(trimmed)
	out := models.RawAgentResponse{Body: json.RawMessage(trimmed)}
	if !root.IsObject() {
		out.RawResult = json.RawMessage(trimmed)
		return out
	}
	if s := root.Get("summary"); s.Exists() && s.Type != gjson.Null {
		out.Summary = textOf(s)
	}
	if charts := root.Get("chart_urls"); charts.IsArray() {
		for _, item := range charts.Array() {
			if item.Type == gjson.Null {
				continue
			}
			out.ChartURLs = append(out.ChartURLs, textOf(item))
		}
	}
	if r := root.Get("raw_result"); r.Exists() {
		out.RawResult = json.RawMessage(r.Raw)
	}
	return out
}

// Normalize 生成展示用结果；summary 一定非空，不做任何 IO
func Normalize(raw models.RawAgentResponse) models.NormalizedResult {
	summary := strings.TrimSpace(raw.Summary)
	rawText := RawResultText(raw.RawResult)

	var final string
	switch {
	case (summary == "" || IsGenericSummary(summary)) && strings.TrimSpace(rawText) != "":
		final = rawText
	case summary != "":
		final = summary
	default:
		final = code.MsgNoSummary
	}

	display := raw.RawResult
	if len(display) == 0 || gjson.ParseBytes(display).Type == gjson.Null {
		display = raw.Body
	}

	return models.NormalizedResult{
		Summary:   final,
		ChartURLs: selectChartURLs(raw.ChartURLs, rawText),
		RawResult: display,
		RawText:   displayText(display),
	}
}

// RawResultText raw_result 的纯文本形式
func RawResultText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	r := gjson.ParseBytes(raw)
	switch {
	case r.Type == gjson.Null:
		return ""
	case r.Type == gjson.String:
		return r.Str
	case r.IsObject():
		for _, key := range rawTextFields {
			v := r.Get(key)
			if !v.Exists() || v.Type == gjson.Null {
				continue
			}
			if text := textOf(v); text != "" {
				return text
			}
		}
	}
	return util.CompactJSON(raw)
}

// IsGenericSummary 过短或是开场白式的摘要
func IsGenericSummary(summary string) bool {
	s := strings.TrimSpace(summary)
	return utf8.RuneCountInString(s) < genericSummaryMinLen || fillerSummaryRe.MatchString(s)
}

// ExtractChartURLs 从文本中提取 /static/charts/*.png，去重并保持首次出现顺序
func ExtractChartURLs(text string) []string {
	matches := chartInTextRe.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		if strings.HasPrefix(m, "/static/") {
			urls = append(urls, m)
		}
	}
	return urls
}

// selectChartURLs 后端显式给出的 chart_urls 只修正前缀，不去重
func selectChartURLs(provided []string, rawText string) []string {
	urls := make([]string, 0, len(provided))
	for _, u := range provided {
		if strings.TrimSpace(u) == "" {
			continue
		}
		urls = append(urls, util.NormalizeChartPath(u))
	}
	if len(urls) > 0 {
		return urls
	}
	return ExtractChartURLs(rawText)
}

func textOf(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return util.CompactJSON([]byte(r.Raw))
}

func displayText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if r := gjson.ParseBytes(raw); r.Type == gjson.String {
		return r.Str
	}
	return util.IndentJSON(raw)
}
