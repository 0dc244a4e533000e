package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultNewsAPIBase = "https://newsapi.org"

var DefaultSources = []string{"bbc-news", "cnn", "the-verge", "techcrunch", "business-insider"}

type NewsAPIOptions struct {
	APIKey   string
	BaseURL  string
	Sources  []string
	PageSize int
	Timeout  time.Duration
	Client   *http.Client
}

// NewsAPI talks to newsapi.org's v2 endpoints.
type NewsAPI struct {
	key      string
	base     string
	sources  []string
	pageSize int
	client   *http.Client
}

func NewNewsAPI(opt NewsAPIOptions) *NewsAPI {
	n := &NewsAPI{
		key:      opt.APIKey,
		base:     strings.TrimRight(opt.BaseURL, "/"),
		sources:  opt.Sources,
		pageSize: opt.PageSize,
		client:   opt.Client,
	}
	if n.base == "" {
		n.base = DefaultNewsAPIBase
	}
	if len(n.sources) == 0 {
		n.sources = DefaultSources
	}
	if n.pageSize <= 0 {
		n.pageSize = 5
	}
	if n.client == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		n.client = &http.Client{Timeout: timeout}
	}
	return n
}

type apiResponse struct {
	Status   string       `json:"status"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Articles []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

func (n *NewsAPI) TopHeadlines(ctx context.Context) ([]Article, error) {
	q := url.Values{}
	q.Set("sources", strings.Join(n.sources, ","))
	q.Set("pageSize", strconv.Itoa(n.pageSize))
	return n.get(ctx, "/v2/top-headlines", q)
}

func (n *NewsAPI) Everything(ctx context.Context, query string) ([]Article, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("language", "en")
	q.Set("pageSize", strconv.Itoa(n.pageSize))
	q.Set("sortBy", "publishedAt")
	return n.get(ctx, "/v2/everything", q)
}

func (n *NewsAPI) get(ctx context.Context, path string, q url.Values) ([]Article, error) {
	q.Set("apiKey", n.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: build request: %w", err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("newsapi %s: read body: %w", path, err)
	}
	var ar apiResponse
	if resp.StatusCode/100 != 2 {
		if json.Unmarshal(body, &ar) == nil && ar.Message != "" {
			return nil, fmt.Errorf("newsapi %s: status %d %s: %s", path, resp.StatusCode, ar.Code, ar.Message)
		}
		return nil, fmt.Errorf("newsapi %s: status %d: %s", path, resp.StatusCode, snippet(body))
	}
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("newsapi %s: decode: %w", path, err)
	}
	if ar.Status != "ok" {
		return nil, fmt.Errorf("newsapi %s: %s: %s", path, ar.Code, ar.Message)
	}

	out := make([]Article, 0, len(ar.Articles))
	for _, a := range ar.Articles {
		src := a.Source.Name
		if src == "" {
			src = a.Source.ID
		}
		out = append(out, Article{
			Source:      src,
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
