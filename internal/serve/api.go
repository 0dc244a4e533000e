package serve

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"aiblog/internal/blog"
	"aiblog/internal/domain/content"
	domainerr "aiblog/internal/domain/errors"
)

const (
	defaultFeatured = 3
	defaultBreaking = 2
	defaultRecent   = 4
	defaultRuns     = 20
)

type errorBody struct {
	Error string `json:"error"`
}

type postSummary struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	HeroImage   string   `json:"heroImage,omitempty"`
}

type postDetail struct {
	content.Post
	HTML string `json:"html"`
}

type generateResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	HeroImage   string `json:"heroImage"`
}

func summarize(posts []content.Post) []postSummary {
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, postSummary{
			Slug:        p.Slug,
			Title:       p.Title,
			Excerpt:     p.Excerpt,
			Description: p.Description,
			Category:    p.Category,
			Date:        p.Date,
			Tags:        p.Tags,
			HeroImage:   p.HeroImage,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// generateStatus maps a pipeline error to the HTTP status it is reported with.
func generateStatus(err error) int {
	if errors.Is(err, domainerr.ErrAlreadyGenerated) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// limitParam reads ?limit=, returning def when absent.
func limitParam(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return n, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		writeError(w, http.StatusInternalServerError, domainerr.ErrMissingConfig)
		return
	}
	res, err := s.gen.Run(r.Context())
	if err != nil {
		status := generateStatus(err)
		entry := s.log.WithError(err).WithField("status", status)
		if status == http.StatusConflict {
			entry.Info("generation skipped")
		} else {
			entry.Error("generation failed")
		}
		writeError(w, status, err)
		return
	}

	s.store.Invalidate()
	s.broadcastSSE("reload")
	writeJSON(w, http.StatusOK, generateResponse{
		Success:     true,
		Message:     "Unified article generated",
		Slug:        res.Slug,
		Title:       res.Title,
		Category:    res.Category,
		Description: res.Description,
		HeroImage:   res.HeroImage,
	})
}

func (s *Server) handleGenerateInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI blog post generator",
		"usage":   "POST to this endpoint to generate one article from today's news",
		"topic":   s.cfg.Generate.Topic,
		"endpoints": map[string]string{
			"POST /api/generate-post": "generate and publish one article",
			"GET /api/search?q=":      "search posts",
			"GET /api/posts":          "list posts, newest first",
			"GET /api/runs":           "recent generation runs",
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := s.cfg.Search.Limit
	if limit <= 0 {
		limit = 10
	}
	writeJSON(w, http.StatusOK, summarize(s.store.Search(q, blog.SearchOptions{Fields: s.fields, Limit: limit})))
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	n, err := limitParam(r, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusOK, summarize(s.store.List()))
		return
	}
	writeJSON(w, http.StatusOK, summarize(s.store.Latest(n)))
}

func (s *Server) listHandler(def int, query func(n int) []content.Post) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := limitParam(r, def)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, summarize(query(n)))
	}
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	s.listHandler(defaultFeatured, s.store.Featured)(w, r)
}

func (s *Server) handleBreaking(w http.ResponseWriter, r *http.Request) {
	s.listHandler(defaultBreaking, s.store.Breaking)(w, r)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	s.listHandler(defaultRecent, s.store.Recent)(w, r)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.store.Get(r.PathValue("slug"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("post not found"))
		return
	}
	md, err := s.pages.RenderBody(post)
	if err != nil {
		s.log.WithError(err).WithField("slug", post.Slug).Error("render post body")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, postDetail{Post: post, HTML: string(md.HTML)})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Tags())
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	name := s.pages.ResolveTag(r.PathValue("tag"))
	writeJSON(w, http.StatusOK, summarize(s.store.ByTag(name)))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	name := s.pages.ResolveCategory(r.PathValue("category"))
	writeJSON(w, http.StatusOK, summarize(s.store.ByCategory(name)))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	n, err := limitParam(r, defaultRuns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if s.runs == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	runs, err := s.runs.Recent(n)
	if err != nil {
		s.log.WithError(err).Error("read run log")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errors.New("no such endpoint"))
}
