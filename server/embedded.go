package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

var (
	//go:embed templates/*
	templateFiles embed.FS

	//go:embed static/*
	staticFiles embed.FS
)

const layoutTemplate = "layout.html"

// templateFuncs are available to every page.
var templateFuncs = template.FuncMap{
	"noticeClass": func(kind NoticeKind) string {
		return "notice notice-" + string(kind)
	},
	"upper": strings.ToUpper,
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("embedded " + dir + ": " + err.Error())
	}
	return sub
}

// ParseTemplate parses a page together with the shared layout blocks.
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).ParseFS(mustSub(templateFiles, "templates"), layoutTemplate, name)
}

// serveStatic writes an embedded asset, reporting false when it does not exist.
func serveStatic(w http.ResponseWriter, r *http.Request, name string) bool {
	assets := mustSub(staticFiles, "static")
	if info, err := fs.Stat(assets, name); err != nil || info.IsDir() {
		return false
	}
	http.ServeFileFS(w, r, assets, name)
	return true
}
