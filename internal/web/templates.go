package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("pages").ParseFS(templateFiles, "templates/*.html"))
}
