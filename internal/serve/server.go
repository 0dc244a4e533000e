// Package serve is the HTTP face of the blog: JSON API, HTML pages,
// metrics and a live-reload event stream for local editing.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"aiblog/internal/app"
	"aiblog/internal/blog"
	"aiblog/internal/domain/config"
	"aiblog/internal/generate"
	"aiblog/internal/logging"
	"aiblog/internal/metrics"
	"aiblog/internal/render"
	"aiblog/internal/runlog"
)

const shutdownTimeout = 5 * time.Second

// Generator runs the generation pipeline once.
type Generator interface {
	Run(ctx context.Context) (generate.Result, error)
}

type GeneratorFunc func(ctx context.Context) (generate.Result, error)

func (f GeneratorFunc) Run(ctx context.Context) (generate.Result, error) { return f(ctx) }

type Options struct {
	Config config.Config
	// Store defaults to a cached store over Config.Content.
	Store *blog.Store
	// Templates defaults to the built-in templates plus Config.Build.ThemeDir.
	Templates render.Renderer
	// Generator, Runs and Metrics are optional.
	Generator Generator
	Runs      *runlog.Store
	Metrics   *metrics.Metrics
	Logger    logging.Logger
}

type Server struct {
	cfg     config.Config
	store   *blog.Store
	pages   *app.Pages
	gen     Generator
	runs    *runlog.Store
	metrics *metrics.Metrics
	log     logging.Logger
	fields  []blog.SearchField

	sseMu    sync.Mutex
	sseConns map[chan string]struct{}

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(opt Options) (*Server, error) {
	cfg := opt.Config
	store := opt.Store
	if store == nil {
		store = blog.New(cfg.Content.Dir,
			blog.WithExtension(cfg.Content.Extension),
			blog.WithLogger(opt.Logger),
			blog.WithCache(),
			blog.WithObserver(opt.Metrics),
		)
	}
	tpl := opt.Templates
	if tpl == nil {
		t, err := render.NewTemplateRenderer(cfg.Build.ThemeDir)
		if err != nil {
			return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
		}
		tpl = t
	}
	pages := app.NewPages(cfg.Site, store, tpl)
	pages.LiveReload = cfg.Server.Watch

	return &Server{
		cfg:      cfg,
		store:    store,
		pages:    pages,
		gen:      opt.Generator,
		runs:     opt.Runs,
		metrics:  opt.Metrics,
		log:      logging.Component(opt.Logger, "serve"),
		fields:   blog.ParseSearchFields(cfg.Search.Fields),
		sseConns: make(map[chan string]struct{}),
	}, nil
}

// Close stops the file watcher. The run log belongs to the caller.
func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/generate-post", s.handleGenerate)
	mux.HandleFunc("GET /api/generate-post", s.handleGenerateInfo)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/posts", s.handlePosts)
	mux.HandleFunc("GET /api/posts/featured", s.handleFeatured)
	mux.HandleFunc("GET /api/posts/breaking", s.handleBreaking)
	mux.HandleFunc("GET /api/posts/recent", s.handleRecent)
	mux.HandleFunc("GET /api/posts/{slug}", s.handlePost)
	mux.HandleFunc("GET /api/tags", s.handleTags)
	mux.HandleFunc("GET /api/tags/{tag}", s.handleTag)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/categories/{category}", s.handleCategory)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("/api/", s.handleAPINotFound)

	mux.HandleFunc("GET /{$}", s.handleHomePage)
	mux.HandleFunc("GET /blog", s.handleBlogIndexPage)
	mux.HandleFunc("GET /blog/{$}", s.handleBlogIndexPage)
	mux.HandleFunc("GET /blog/{slug}", s.handlePostPage)
	mux.HandleFunc("GET /tags", s.handleTagsPage)
	mux.HandleFunc("GET /tags/{tag}", s.handleTagPage)
	mux.HandleFunc("GET /categories/{category}", s.handleCategoryPage)
	mux.HandleFunc("/", s.handleNotFound)

	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /dev/events", s.handleSSE)

	return s.accessLog(mux)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if s.cfg.Server.Watch {
		if err := s.startWatch(ctx); err != nil {
			s.log.WithError(err).Warn("file watcher unavailable, live reload disabled")
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the event stream working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logging.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}
