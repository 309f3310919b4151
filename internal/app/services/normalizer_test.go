package services

import (
	"reflect"
	"strings"
	"testing"

	"stock-agent-web/internal/pkg/code"
)

var longSummary = "AAPL closed the week at 189.40, up 3.1% week over week. The 20-day SMA crossed above the 50-day SMA on Tuesday and volume stayed above its 30-day average."

func TestNormalizeSummarySelection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "generic greeting falls back to raw text",
			body: `{"summary":"OK, fetching AAPL data now","raw_result":"Final answer: AAPL rose 3% this week. https://example.com/news"}`,
			want: "Final answer: AAPL rose 3% this week. https://example.com/news",
		},
		{
			name: "short summary falls back to raw output field",
			body: `{"summary":"Done.","raw_result":{"input":"q","output":"Detailed analysis"}}`,
			want: "Detailed analysis",
		},
		{
			name: "output wins over final_answer",
			body: `{"raw_result":{"final_answer":"second","output":"first"}}`,
			want: "first",
		},
		{
			name: "final_answer then message then detail",
			body: `{"raw_result":{"detail":"d","message":"m","final_answer":""}}`,
			want: "m",
		},
		{
			name: "object without known fields is serialized",
			body: `{"raw_result":{"a": 1, "b": [1, 2]}}`,
			want: `{"a":1,"b":[1,2]}`,
		},
		{
			name: "long specific summary is kept",
			body: `{"summary":"` + longSummary + `","raw_result":"other text"}`,
			want: longSummary,
		},
		{
			name: "long summary starting with filler still falls back",
			body: `{"summary":"Sure! ` + longSummary + `","raw_result":"the real answer"}`,
			want: "the real answer",
		},
		{
			name: "i am analyzing filler",
			body: `{"summary":"I am analyzing ` + longSummary + `","raw_result":{"output":"analysis"}}`,
			want: "analysis",
		},
		{
			name: "short summary kept when raw text is empty",
			body: `{"summary":"  Short one  ","raw_result":""}`,
			want: "Short one",
		},
		{
			name: "everything empty gives placeholder",
			body: `{"summary":"","raw_result":null}`,
			want: code.MsgNoSummary,
		},
		{
			name: "empty body gives placeholder",
			body: ``,
			want: code.MsgNoSummary,
		},
		{
			name: "non json body becomes the summary",
			body: `AAPL is trading flat today`,
			want: "AAPL is trading flat today",
		},
		{
			name: "numeric summary is stringified",
			body: `{"summary": 42}`,
			want: "42",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(ParseAgentResponse([]byte(tt.body)))
			if got.Summary != tt.want {
				t.Errorf("summary = %q, want %q", got.Summary, tt.want)
			}
		})
	}
}

func TestIsGenericSummary(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"short", true},
		{longSummary, false},
		{"I'm fetching the data. " + longSummary, true},
		{"i’m retrieving prices " + longSummary, true},
		{"OK, " + longSummary, true},
		{"okay " + longSummary, true},
		{"Okta shares " + longSummary, false},
		{"Surely " + longSummary, false},
		{"SURE, " + longSummary, true},
	}
	for _, tt := range tests {
		if got := IsGenericSummary(tt.in); got != tt.want {
			t.Errorf("IsGenericSummary(%.30q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeChartsFromRawText(t *testing.T) {
	body := `{"summary":"x","raw_result":"see /static/charts/a.png and (/static/charts/b.png), again /static/charts/a.png; not /static/charts/c.jpg or /static/img/d.png or charts/e.png"}`
	got := Normalize(ParseAgentResponse([]byte(body)))
	want := []string{"/static/charts/a.png", "/static/charts/b.png"}
	if !reflect.DeepEqual(got.ChartURLs, want) {
		t.Errorf("charts = %v, want %v", got.ChartURLs, want)
	}
}

func TestNormalizeChartsAdjacentPaths(t *testing.T) {
	got := ExtractChartURLs("/static/charts/a.png,/static/charts/b.png")
	want := []string{"/static/charts/a.png", "/static/charts/b.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("charts = %v, want %v", got, want)
	}
}

func TestNormalizeChartsFromOutputField(t *testing.T) {
	body := `{"raw_result":{"output":"Chart saved to /static/charts/tsla_bb.png"}}`
	got := Normalize(ParseAgentResponse([]byte(body)))
	if !reflect.DeepEqual(got.ChartURLs, []string{"/static/charts/tsla_bb.png"}) {
		t.Errorf("charts = %v", got.ChartURLs)
	}
}

func TestNormalizeProvidedChartsAreFixedNotDeduplicated(t *testing.T) {
	body := `{"summary":"x","chart_urls":["/static/charts/a.png","/static/charts/a.png","charts/foo.png","static/charts/bar.png"," "],"raw_result":"/static/charts/zzz.png"}`
	got := Normalize(ParseAgentResponse([]byte(body)))
	want := []string{
		"/static/charts/a.png",
		"/static/charts/a.png",
		"/static/charts/foo.png",
		"/static/charts/bar.png",
	}
	if !reflect.DeepEqual(got.ChartURLs, want) {
		t.Errorf("charts = %v, want %v", got.ChartURLs, want)
	}
}

func TestNormalizeAbsoluteChartURL(t *testing.T) {
	body := `{"summary":"x","chart_urls":["https://cdn.example.com/static/charts/a.png","http://localhost:8000/charts/b.png"]}`
	got := Normalize(ParseAgentResponse([]byte(body)))
	want := []string{"/static/charts/a.png", "/static/charts/b.png"}
	if !reflect.DeepEqual(got.ChartURLs, want) {
		t.Errorf("charts = %v, want %v", got.ChartURLs, want)
	}
}

func TestNormalizeNoCharts(t *testing.T) {
	got := Normalize(ParseAgentResponse([]byte(`{"summary":"x","chart_urls":[]}`)))
	if got.ChartURLs == nil || len(got.ChartURLs) != 0 {
		t.Errorf("charts = %#v, want empty non-nil", got.ChartURLs)
	}
	if got.HasCharts() {
		t.Error("HasCharts should be false")
	}
}

func TestNormalizeRawResultPreserved(t *testing.T) {
	body := `{"summary":"x","raw_result":{"output":"o","intermediate_steps":[1,2]}}`
	got := Normalize(ParseAgentResponse([]byte(body)))
	if string(got.RawResult) != `{"output":"o","intermediate_steps":[1,2]}` {
		t.Errorf("raw_result = %s", got.RawResult)
	}
	if !strings.Contains(got.RawText, "\n  \"output\": \"o\"") {
		t.Errorf("raw text not indented: %q", got.RawText)
	}
}

func TestNormalizeMissingRawResultShowsWholeBody(t *testing.T) {
	body := `{"summary":"` + longSummary + `"}`
	got := Normalize(ParseAgentResponse([]byte(body)))
	if string(got.RawResult) != body {
		t.Errorf("raw_result = %s", got.RawResult)
	}
	if got.Summary != longSummary {
		t.Errorf("summary = %q", got.Summary)
	}
}

func TestNormalizeStringRawTextIsVerbatim(t *testing.T) {
	got := Normalize(ParseAgentResponse([]byte(`{"raw_result":"line1\nline2"}`)))
	if got.RawText != "line1\nline2" {
		t.Errorf("raw text = %q", got.RawText)
	}
}
