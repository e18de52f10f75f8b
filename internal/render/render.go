// Package render отрисовывает HTML-страницы из встроенных шаблонов.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsGlob = "templates/partials/*.html"
	pagesGlob    = "templates/pages/*.html"
)

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("02.01.2006 15:04")
	},
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// New разбирает все шаблоны заранее: ошибка в шаблоне обнаруживается при старте.
func New() (*Renderer, error) {
	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(templateFS, partialsGlob)
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	files, err := fs.Glob(templateFS, pagesGlob)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, partialsGlob, file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, fragments: fragments}, nil
}

// Page рендерит страницу целиком в память.
func (r *Renderer) Page(name string, data any) ([]byte, error) {
	if !r.has(name) {
		return nil, fmt.Errorf("template %q not found", name)
	}
	t := r.pages[name]

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Fragment рендерит один частичный шаблон (например, список постов).
func (r *Renderer) Fragment(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute fragment %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Render пишет страницу в ответ. При ошибке шаблона отдается 500 без частичного вывода.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	body, err := r.Page(name, data)
	if err != nil {
		log.WithError(err).WithField("template", name).Error("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.WithError(err).Debug("write response")
	}
}

func (r *Renderer) has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
