// Package build exports the whole site as static HTML.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"aiblog/internal/app"
	"aiblog/internal/blog"
	"aiblog/internal/domain/config"
	"aiblog/internal/logging"
	"aiblog/internal/render"
)

type Builder struct {
	Cfg    config.Config
	Store  *blog.Store
	Logger logging.Logger
}

type Result struct {
	Posts int
	Pages int
	// Skipped lists routes whose source vanished mid-build.
	Skipped []string
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := logging.Component(b.Logger, "build")
	store := b.Store
	if store == nil {
		store = blog.New(b.Cfg.Content.Dir,
			blog.WithExtension(b.Cfg.Content.Extension),
			blog.WithLogger(b.Logger),
		)
	}

	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load templates(%s): %w", b.Cfg.Build.ThemeDir, err)
	}
	pages := app.NewPages(b.Cfg.Site, store, tpl)

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	rb := &app.RouteBuilder{Store: store}
	res := &Result{Posts: len(store.List())}
	for _, r := range rb.BuildAll() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		html, err := pages.Render(ctx, r)
		if errors.Is(err, app.ErrNoPage) {
			log.WithField("route", r.String()).Warn("route has no content, skipped")
			res.Skipped = append(res.Skipped, r.String())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", r, err)
		}
		if err := writeFile(outDir, r.OutPath, html); err != nil {
			return nil, err
		}
		res.Pages++
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}
	log.WithFields(logging.Fields{"posts": res.Posts, "pages": res.Pages, "out": outDir}).Info("build complete")
	return res, nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// copyStaticAssets mirrors {theme}/static into the output root.
func (b *Builder) copyStaticAssets(outDir string) error {
	if b.Cfg.Build.ThemeDir == "" {
		return nil
	}
	src := filepath.Join(b.Cfg.Build.ThemeDir, "static")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return writeFile(outDir, rel, in)
	})
}
