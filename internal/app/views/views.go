package views

import (
	"embed"
	"html/template"
	"io/fs"
	"path"
)

//go:embed templates/*.html assets/*
var content embed.FS

// Templates 页面模板；summaryHTML 只接受 mdlite 的输出
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"summaryHTML": func(s string) template.HTML { return template.HTML(s) },
		"chartName":   func(u string) string { return path.Base(u) },
		"inc":         func(i int) int { return i + 1 },
	}).ParseFS(content, "templates/*.html"))
}

// Assets 静态资源，挂载在 /assets 下
func Assets() fs.FS {
	sub, err := fs.Sub(content, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
