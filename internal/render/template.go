package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aiblog/internal/domain/site"
)

//go:embed templates/*.tmpl
var builtin embed.FS

var requiredTemplates = []string{
	"home.tmpl",
	"post.tmpl",
	"list.tmpl",
	"tags.tmpl",
	"404.tmpl",
}

type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer loads the built-in templates, then any *.tmpl in
// themeDir on top of them so a theme can override single files.
func NewTemplateRenderer(themeDir string) (*TemplateRenderer, error) {
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(builtin, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	if themeDir != "" {
		matches, err := filepath.Glob(filepath.Join(themeDir, "*.tmpl"))
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			if tpl, err = tpl.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("theme %s: %w", themeDir, err)
			}
		}
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"postURL": func(slug string) string {
			return site.Route{Kind: site.RoutePost, Slug: slug}.URL()
		},
		"tagURL": func(name string) string {
			return site.Route{Kind: site.RouteTag, Key: name}.URL()
		},
		"categoryURL": func(name string) string {
			return site.Route{Kind: site.RouteCategory, Key: name}.URL()
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"join": strings.Join,
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderList(ctx context.Context, page ListPage) ([]byte, error) {
	return r.exec("list.tmpl", page)
}

func (r *TemplateRenderer) RenderTagsPage(ctx context.Context, page TagsPage) ([]byte, error) {
	return r.exec("tags.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckThemeTemplates reports the first page template a theme directory
// lacks. Themes only need it when they replace the full set.
func CheckThemeTemplates(themeDir string) error {
	for _, name := range requiredTemplates {
		if _, err := os.Stat(filepath.Join(themeDir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
