// Package mdlite renders the small markdown subset used by agent summaries
// into an HTML fragment. Input is escaped first; every tag in the output is
// produced by one of the substitutions below, in this exact order.
package mdlite

import (
	"regexp"
	"strings"

	"stock-agent-web/pkg/util"
)

var (
	chartPathRe  = regexp.MustCompile(`(?i)(^|[\s(])(/?(?:static/)?charts/[^\s"')]+\.png)`)
	bareURLRe    = regexp.MustCompile(`(?i)https?://[^\s)]+`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s?(.*)$`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	fencedCodeRe = regexp.MustCompile("```([\\s\\S]*?)```")
	listItemRe   = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+(.*)$`)
	listRunRe    = regexp.MustCompile(`<li>.*?</li>(?:\n<li>.*?</li>)*`)
)

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Render converts text to an HTML fragment. It never fails; unmatched
// markers stay in the output as escaped text.
func Render(text string) string {
	html := strings.ReplaceAll(text, "\r\n", "\n")
	html = escaper.Replace(html)

	html = replaceSubmatch(chartPathRe, html, func(m []string) string {
		return m[1] + anchor("chart-link", util.NormalizeChartPath(m[2]), m[2])
	})
	html = bareURLRe.ReplaceAllStringFunc(html, func(u string) string {
		return anchor("md-link", u, u)
	})

	html = headingRe.ReplaceAllString(html, `<span class="md-heading">${1}</span>`)
	html = boldRe.ReplaceAllString(html, `<strong>${1}</strong>`)
	html = italicRe.ReplaceAllString(html, `<em>${1}</em>`)
	html = inlineCodeRe.ReplaceAllString(html, `<code class="md-code">${1}</code>`)
	html = fencedCodeRe.ReplaceAllString(html, `<pre class="md-pre">${1}</pre>`)

	html = listItemRe.ReplaceAllString(html, `<li>${1}</li>`)
	html = listRunRe.ReplaceAllStringFunc(html, func(run string) string {
		return `<ul class="md-list">` + strings.ReplaceAll(run, "</li>\n<li>", "</li><li>") + `</ul>`
	})

	return strings.ReplaceAll(html, "\n", "<br />")
}

// anchor 生成新窗口打开的链接；href 中的双引号转义，避免跳出属性
func anchor(class, href, label string) string {
	return `<a class="` + class + `" target="_blank" rel="noopener" href="` +
		strings.ReplaceAll(href, `"`, "&#34;") + `">` + label + `</a>`
}

// replaceSubmatch 与 ReplaceAllStringFunc 相同，但回调拿到分组
func replaceSubmatch(re *regexp.Regexp, s string, fn func([]string) string) string {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range idx {
		b.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
