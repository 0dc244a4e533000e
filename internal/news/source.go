// Package news fetches the upstream articles the pipeline summarises.
package news

import (
	"context"
	"time"
)

// Article is one upstream news item.
type Article struct {
	Source      string
	Title       string
	Description string
	Content     string
	URL         string
	PublishedAt time.Time
}

// Source is a news provider. TopHeadlines is the primary fetch and
// Everything the keyword fallback.
type Source interface {
	TopHeadlines(ctx context.Context) ([]Article, error)
	Everything(ctx context.Context, query string) ([]Article, error)
}
