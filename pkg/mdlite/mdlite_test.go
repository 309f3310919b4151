package mdlite

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text only gets line breaks",
			in:   "AAPL closed higher\nVolume was average",
			want: "AAPL closed higher<br />Volume was average",
		},
		{
			name: "crlf treated as newline",
			in:   "one\r\ntwo",
			want: "one<br />two",
		},
		{
			name: "escapes markup",
			in:   "<script>alert(1)</script>",
			want: "&lt;script&gt;alert(1)&lt;/script&gt;",
		},
		{
			name: "escapes ampersand once",
			in:   "P&L < 0",
			want: "P&amp;L &lt; 0",
		},
		{
			name: "absolute chart path",
			in:   "Chart: /static/charts/aapl_close.png",
			want: `Chart: <a class="chart-link" target="_blank" rel="noopener" href="/static/charts/aapl_close.png">/static/charts/aapl_close.png</a>`,
		},
		{
			name: "relative chart path gets absolute href",
			in:   "see (static/charts/a.png)",
			want: `see (<a class="chart-link" target="_blank" rel="noopener" href="/static/charts/a.png">static/charts/a.png</a>)`,
		},
		{
			name: "bare charts path",
			in:   "charts/foo.png",
			want: `<a class="chart-link" target="_blank" rel="noopener" href="/static/charts/foo.png">charts/foo.png</a>`,
		},
		{
			name: "chart path glued to a word is left alone",
			in:   "x/static/charts/a.png",
			want: "x/static/charts/a.png",
		},
		{
			name: "bare url",
			in:   "News: https://example.com/news",
			want: `News: <a class="md-link" target="_blank" rel="noopener" href="https://example.com/news">https://example.com/news</a>`,
		},
		{
			name: "url stops at closing paren",
			in:   "(https://example.com/a)",
			want: `(<a class="md-link" target="_blank" rel="noopener" href="https://example.com/a">https://example.com/a</a>)`,
		},
		{
			name: "quote in url cannot break the attribute",
			in:   `https://x.test/"onmouseover="alert(1)`,
			want: `<a class="md-link" target="_blank" rel="noopener" href="https://x.test/&#34;onmouseover=&#34;alert(1">https://x.test/"onmouseover="alert(1</a>)`,
		},
		{
			name: "heading levels collapse to one span",
			in:   "# Title\n### Sub",
			want: `<span class="md-heading">Title</span><br /><span class="md-heading">Sub</span>`,
		},
		{
			name: "heading without space",
			in:   "##Title",
			want: `<span class="md-heading">Title</span>`,
		},
		{
			name: "bold and italic",
			in:   "**up** and *down*",
			want: "<strong>up</strong> and <em>down</em>",
		},
		{
			name: "triple asterisks resolve bold first",
			in:   "***x***",
			want: "<strong><em>x</strong></em>",
		},
		{
			name: "unterminated italic stays literal",
			in:   "*single",
			want: "*single",
		},
		{
			name: "inline code",
			in:   "use `sma(20)` here",
			want: `use <code class="md-code">sma(20)</code> here`,
		},
		{
			name: "unterminated code stays literal",
			in:   "`open",
			want: "`open",
		},
		{
			name: "inline code runs before fences",
			in:   "```code```",
			want: "``<code class=\"md-code\">code</code>``",
		},
		{
			name: "empty fence",
			in:   "``````",
			want: `<pre class="md-pre"></pre>`,
		},
		{
			name: "adjacent bullets share one list",
			in:   "- a\n- b\n* c",
			want: `<ul class="md-list"><li>a</li><li>b</li><li>c</li></ul>`,
		},
		{
			name: "separated bullets make separate lists",
			in:   "- a\ntext\n- b",
			want: `<ul class="md-list"><li>a</li></ul><br />text<br /><ul class="md-list"><li>b</li></ul>`,
		},
		{
			name: "indented bullet",
			in:   "  - nested",
			want: `<ul class="md-list"><li>nested</li></ul>`,
		},
		{
			name: "blank line ends a list",
			in:   "- a\n\n- b",
			want: `<ul class="md-list"><li>a</li></ul><br /><br /><ul class="md-list"><li>b</li></ul>`,
		},
		{
			name: "bare dash does not take the next line",
			in:   "-\nfoo",
			want: `-<br />foo`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render(%q)\n got: %s\nwant: %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderResultScenario(t *testing.T) {
	got := Render("**Result**\n- up 2%\n- down 1%")
	want := `<strong>Result</strong><br /><ul class="md-list"><li>up 2%</li><li>down 1%</li></ul>`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	if strings.Count(got, "<ul") != 1 {
		t.Errorf("expected a single list container: %s", got)
	}
}

func TestRenderNeverEmitsRawTags(t *testing.T) {
	inputs := []string{
		"<img src=x onerror=alert(1)>",
		"**<b>**",
		"- <script>x</script>",
		"`<iframe>`",
		"# <style>",
	}
	for _, in := range inputs {
		out := Render(in)
		for _, tag := range []string{"<img", "<b>", "<script", "<iframe", "<style"} {
			if strings.Contains(out, tag) {
				t.Errorf("Render(%q) leaked %s: %s", in, tag, out)
			}
		}
	}
}
