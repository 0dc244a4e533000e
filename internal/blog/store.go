// Package blog is the read side of the site: a queryable view over the
// content directory. Every query is a filter over List, which re-reads the
// directory unless the stamp-validated cache is enabled.
package blog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"aiblog/internal/domain/content"
	"aiblog/internal/ingest"
	"aiblog/internal/logging"
)

const DefaultExtension = ".mdx"

// ScanObserver receives the outcome of each directory scan.
type ScanObserver interface {
	ObserveScan(d time.Duration, posts int, cached bool)
}

type Store struct {
	dir string
	ext string
	now func() time.Time
	log logging.Logger
	obs ScanObserver

	cacheOn bool
	mu      sync.Mutex
	cached  []content.Post
	stamp   dirStamp
	valid   bool
}

// dirStamp changes whenever a content file is added, removed, renamed or
// rewritten.
type dirStamp struct {
	dirMod time.Time
	files  int
	newest time.Time
	size   int64
}

func (a dirStamp) equal(b dirStamp) bool {
	return a.dirMod.Equal(b.dirMod) && a.files == b.files &&
		a.newest.Equal(b.newest) && a.size == b.size
}

type Option func(*Store)

func WithExtension(ext string) Option {
	return func(s *Store) {
		if ext != "" {
			s.ext = ext
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = logging.Component(l, "store") }
}

// WithCache keeps the last scan while neither the directory mtime nor the
// mtime and size of any content file has changed, and Invalidate has not
// been called. Revalidating stats every file but parses none.
func WithCache() Option {
	return func(s *Store) { s.cacheOn = true }
}

func WithObserver(o ScanObserver) Option {
	return func(s *Store) { s.obs = o }
}

func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir: dir,
		ext: DefaultExtension,
		now: time.Now,
		log: logging.Component(nil, "store"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Dir() string       { return s.dir }
func (s *Store) Extension() string { return s.ext }

// Invalidate drops the cached scan; the next List re-reads the directory.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.cached = nil
	s.mu.Unlock()
}

// List returns every parseable record, newest first by Date compared as a
// string. An unreadable directory yields an empty list.
func (s *Store) List() []content.Post {
	if !s.cacheOn {
		return s.scan()
	}

	st := s.stampDir()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid && st.equal(s.stamp) {
		if s.obs != nil {
			s.obs.ObserveScan(0, len(s.cached), true)
		}
		return clonePosts(s.cached)
	}
	posts := s.scan()
	s.cached = posts
	s.stamp = st
	s.valid = true
	return clonePosts(posts)
}

func (s *Store) stampDir() dirStamp {
	var st dirStamp
	if info, err := os.Stat(s.dir); err == nil {
		st.dirMod = info.ModTime()
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return st
	}
	for _, d := range entries {
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), s.ext) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		st.files++
		st.size += info.Size()
		if info.ModTime().After(st.newest) {
			st.newest = info.ModTime()
		}
	}
	return st
}

func (s *Store) scan() []content.Post {
	start := time.Now()
	posts, warns, err := ingest.Ingest(s.dir, s.ext, s.now())
	if err != nil {
		s.log.WithError(err).WithField("dir", s.dir).Debug("content directory not readable")
		posts = nil
	}
	for _, w := range warns {
		s.log.WithField("path", w.Path).Warn(w.Msg)
	}
	sortByDateDesc(posts)
	if posts == nil {
		posts = []content.Post{}
	}
	if s.obs != nil {
		s.obs.ObserveScan(time.Since(start), len(posts), false)
	}
	return posts
}

// Get reads the single file named by slug. ok is false when the slug is
// unsafe, the file is missing, or it does not parse.
func (s *Store) Get(slug string) (content.Post, bool) {
	if !ingest.ValidSlug(slug) {
		return content.Post{}, false
	}
	path := filepath.Join(s.dir, slug+s.ext)
	p, err := ingest.ParseFile(path, slug, s.now())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).WithField("path", path).Warn("post not parseable")
		}
		return content.Post{}, false
	}
	return p, true
}

func sortByDateDesc(posts []content.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
}

func clonePosts(in []content.Post) []content.Post {
	out := make([]content.Post, len(in))
	for i, p := range in {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}
