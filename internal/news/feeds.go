package news

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mmcdole/gofeed"

	"aiblog/internal/logging"
)

type FeedsOptions struct {
	URLs []string
	// PageSize caps the items kept per call.
	PageSize int
	Timeout  time.Duration
	Client   *http.Client
	Logger   logging.Logger
}

// Feeds reads RSS or Atom feeds in place of a news API. Feed HTML is
// converted to Markdown before it reaches the prompt.
type Feeds struct {
	urls     []string
	pageSize int
	parser   *gofeed.Parser
	log      logging.Logger
}

func NewFeeds(opt FeedsOptions) *Feeds {
	p := gofeed.NewParser()
	p.Client = opt.Client
	if p.Client == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		p.Client = &http.Client{Timeout: timeout}
	}
	size := opt.PageSize
	if size <= 0 {
		size = 5
	}
	return &Feeds{
		urls:     opt.URLs,
		pageSize: size,
		parser:   p,
		log:      logging.Component(opt.Logger, "feeds"),
	}
}

// TopHeadlines returns the newest items across all feeds.
func (f *Feeds) TopHeadlines(ctx context.Context) ([]Article, error) {
	all, err := f.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return limit(all, f.pageSize), nil
}

// Everything keeps items whose title or description contains any word
// of query.
func (f *Feeds) Everything(ctx context.Context, query string) ([]Article, error) {
	all, err := f.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	words := strings.Fields(strings.ToLower(query))
	var out []Article
	for _, a := range all {
		hay := strings.ToLower(a.Title + " " + a.Description)
		for _, w := range words {
			if strings.Contains(hay, w) {
				out = append(out, a)
				break
			}
		}
	}
	return limit(out, f.pageSize), nil
}

// fetchAll fails only when every feed fails.
func (f *Feeds) fetchAll(ctx context.Context) ([]Article, error) {
	var (
		out     []Article
		lastErr error
		okCount int
	)
	for _, u := range f.urls {
		items, err := f.fetch(ctx, u)
		if err != nil {
			f.log.WithError(err).WithField("url", u).Warn("feed fetch failed")
			lastErr = err
			continue
		}
		okCount++
		out = append(out, items...)
	}
	if okCount == 0 && lastErr != nil {
		return nil, lastErr
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *Feeds) fetch(ctx context.Context, url string) ([]Article, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	out := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		var pub time.Time
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}
		out = append(out, Article{
			Source:      feed.Title,
			Title:       strings.TrimSpace(item.Title),
			Description: f.markdown(item.Description),
			Content:     f.markdown(item.Content),
			URL:         item.Link,
			PublishedAt: pub,
		})
	}
	return out, nil
}

func (f *Feeds) markdown(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		f.log.WithError(err).Debug("html conversion failed, keeping raw text")
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(md)
}

func sortNewestFirst(items []Article) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

func limit(items []Article, n int) []Article {
	if len(items) > n {
		return items[:n]
	}
	return items
}
