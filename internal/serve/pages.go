package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"aiblog/internal/app"
)

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string, render func(ctx context.Context) ([]byte, error)) {
	html, err := render(r.Context())
	if errors.Is(err, app.ErrNoPage) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("page", name).Error("render page")
		http.Error(w, "render "+name+" error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "home", s.pages.Home)
}

func (s *Server) handleBlogIndexPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "blog", s.pages.BlogIndex)
}

func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	s.servePage(w, r, "post", func(ctx context.Context) ([]byte, error) {
		return s.pages.Post(ctx, slug)
	})
}

func (s *Server) handleTagsPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "tags", s.pages.Tags)
}

func (s *Server) handleTagPage(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	s.servePage(w, r, "tag", func(ctx context.Context) ([]byte, error) {
		return s.pages.Tag(ctx, tag)
	})
}

func (s *Server) handleCategoryPage(w http.ResponseWriter, r *http.Request) {
	cat := r.PathValue("category")
	s.servePage(w, r, "category", func(ctx context.Context) ([]byte, error) {
		return s.pages.Category(ctx, cat)
	})
}

// handleNotFound serves a theme static file when one exists at the path,
// otherwise the 404 page.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if file, ok := s.staticFile(r.URL.Path); ok && r.Method == http.MethodGet {
		http.ServeFile(w, r, file)
		return
	}
	html, err := s.pages.NotFound(r.Context(), r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, html)
}

func (s *Server) staticFile(urlPath string) (string, bool) {
	if s.cfg.Build.ThemeDir == "" {
		return "", false
	}
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	full := filepath.Join(s.cfg.Build.ThemeDir, "static", filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return full, true
}

func writeHTML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
