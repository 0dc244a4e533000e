package ingest

import (
	"os"
	"runtime"
	"sync"
	"time"

	"aiblog/internal/domain/content"
)

type Warning struct {
	Path string
	Msg  string
}

type Result struct {
	Post content.Post
	Warn *Warning
	Skip bool
}

// Ingest parses every content file in dir. Files that cannot be read or
// parsed are skipped and reported as warnings. The returned posts keep
// the directory order; callers sort. The error is non-nil only when the
// directory itself cannot be listed.
func Ingest(dir, ext string, now time.Time) ([]content.Post, []Warning, error) {
	files, err := DiscoverSource(dir, ext)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(files) {
		workers = len(files)
	}
	jobs := make(chan int)
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = parseOne(files[idx], now)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]content.Post, 0, len(files))
	var warns []Warning
	for _, r := range results {
		if r.Warn != nil {
			warns = append(warns, *r.Warn)
		}
		if r.Skip {
			continue
		}
		out = append(out, r.Post)
	}
	return out, warns, nil
}

func parseOne(sf SourceFile, now time.Time) Result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Skip: true, Warn: &Warning{Path: sf.Path, Msg: "read failed: " + err.Error()}}
	}
	p, err := ParsePost(raw, sf.Slug, now)
	if err != nil {
		return Result{Skip: true, Warn: &Warning{Path: sf.Path, Msg: "failed to parse front matter: " + err.Error()}}
	}
	return Result{Post: p}
}

// ParseFile reads and parses the file at path under the given slug.
func ParseFile(path, slug string, now time.Time) (content.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return content.Post{}, err
	}
	return ParsePost(raw, slug, now)
}
