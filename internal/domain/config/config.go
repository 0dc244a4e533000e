package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domainerr "aiblog/internal/domain/errors"
)

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Content  ContentConfig  `yaml:"content"`
	Build    BuildConfig    `yaml:"build"`
	Server   ServerConfig   `yaml:"server"`
	Search   SearchConfig   `yaml:"search"`
	News     NewsConfig     `yaml:"news"`
	LLM      LLMConfig      `yaml:"llm"`
	Publish  PublishConfig  `yaml:"publish"`
	Generate GenerateConfig `yaml:"generate"`
	Log      LogConfig      `yaml:"log"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"site_url"`
	Language    string `yaml:"language"`
}

type ContentConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
	// Cache keeps the last directory scan until a content file or the directory changes.
	Cache bool `yaml:"cache"`
}

type BuildConfig struct {
	PublicDir string `yaml:"public_dir"`
	// ThemeDir holds *.tmpl overrides and a static/ directory.
	ThemeDir string    `yaml:"theme_dir"`
	Now      time.Time `yaml:"-"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	RunLogPath string `yaml:"run_log_path"`
	Watch      bool   `yaml:"watch"`
}

type SearchConfig struct {
	Fields []string `yaml:"fields"`
	Limit  int      `yaml:"limit"`
}

type NewsProvider string

const (
	NewsAPI   NewsProvider = "newsapi"
	NewsFeeds NewsProvider = "feeds"
)

type NewsConfig struct {
	Provider      NewsProvider  `yaml:"provider"`
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	Sources       []string      `yaml:"sources"`
	PageSize      int           `yaml:"page_size"`
	FallbackQuery string        `yaml:"fallback_query"`
	Feeds         []string      `yaml:"feeds"`
	Timeout       time.Duration `yaml:"timeout"`
}

type LLMProvider string

const (
	LLMOpenAI LLMProvider = "openai"
	LLMGemini LLMProvider = "gemini"
)

type LLMConfig struct {
	Provider         LLMProvider   `yaml:"provider"`
	APIKey           string        `yaml:"api_key"`
	BaseURL          string        `yaml:"base_url"`
	Model            string        `yaml:"model"`
	Timeout          time.Duration `yaml:"timeout"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerDelay     time.Duration `yaml:"breaker_delay"`
}

type PublishConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Token      string        `yaml:"token"`
	Owner      string        `yaml:"owner"`
	Repo       string        `yaml:"repo"`
	Branch     string        `yaml:"branch"`
	PathPrefix string        `yaml:"path_prefix"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

type GenerateConfig struct {
	Topic        string `yaml:"topic"`
	OncePerDay   bool   `yaml:"once_per_day"`
	PromptBudget int    `yaml:"prompt_budget"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var searchFieldNames = map[string]struct{}{
	"title":    {},
	"excerpt":  {},
	"tags":     {},
	"category": {},
	"slug":     {},
	"content":  {},
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "AI News Blog",
			Language: "en",
		},
		Content: ContentConfig{
			Dir:       "blog",
			Extension: ".mdx",
		},
		Build: BuildConfig{
			PublicDir: "public",
			Now:       time.Now(),
		},
		Server: ServerConfig{
			Addr:       ":8080",
			RunLogPath: ".aiblog/runs.db",
			Watch:      true,
		},
		Search: SearchConfig{
			Fields: []string{"title", "excerpt", "category", "tags"},
			Limit:  10,
		},
		News: NewsConfig{
			Provider:      NewsAPI,
			BaseURL:       "https://newsapi.org",
			Sources:       []string{"bbc-news", "cnn", "the-verge", "techcrunch", "business-insider"},
			PageSize:      5,
			FallbackQuery: "business artificial intelligence",
			Timeout:       15 * time.Second,
		},
		LLM: LLMConfig{
			Provider:         LLMOpenAI,
			BaseURL:          "https://api.groq.com/openai/v1",
			Model:            "llama3-8b-8192",
			Timeout:          60 * time.Second,
			BreakerThreshold: 5,
			BreakerDelay:     30 * time.Second,
		},
		Publish: PublishConfig{
			Enabled:    true,
			Branch:     "master",
			PathPrefix: "blog",
			BaseURL:    "https://api.github.com",
			Timeout:    30 * time.Second,
		},
		Generate: GenerateConfig{
			Topic:        "Business and Artificial Intelligence News and Current Updates",
			PromptBudget: 8000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if u := strings.TrimSpace(c.Site.SiteURL); u != "" && !isValidAbsURL(u) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if strings.TrimSpace(c.Content.Dir) == "" {
		ve.Add("content.dir", "must not be empty")
	}
	if !strings.HasPrefix(c.Content.Extension, ".") || len(c.Content.Extension) < 2 {
		ve.Add("content.extension", "must start with '.'")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}

	for _, f := range c.Search.Fields {
		if _, ok := searchFieldNames[strings.ToLower(strings.TrimSpace(f))]; !ok {
			ve.Add("search.fields", "unknown field '"+f+"'")
		}
	}
	if c.Search.Limit < 0 {
		ve.Add("search.limit", "must not be negative")
	}

	switch c.News.Provider {
	case NewsAPI, NewsFeeds:
	default:
		ve.Add("news.provider", "must be 'newsapi' or 'feeds'")
	}
	if c.News.BaseURL != "" && !isValidAbsURL(c.News.BaseURL) {
		ve.Add("news.base_url", "must be a valid absolute URL")
	}

	switch c.LLM.Provider {
	case LLMOpenAI, LLMGemini:
	default:
		ve.Add("llm.provider", "must be 'openai' or 'gemini'")
	}
	if c.LLM.Provider == LLMOpenAI && !isValidAbsURL(c.LLM.BaseURL) {
		ve.Add("llm.base_url", "must be a valid absolute URL")
	}

	if c.Publish.Enabled {
		if strings.TrimSpace(c.Publish.Branch) == "" {
			ve.Add("publish.branch", "must not be empty")
		}
		if !isValidAbsURL(c.Publish.BaseURL) {
			ve.Add("publish.base_url", "must be a valid absolute URL")
		}
	}

	if c.Generate.PromptBudget <= 0 {
		ve.Add("generate.prompt_budget", "must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		ve.Add("log.level", "must be one of debug, info, warn, error")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// ValidateGeneration reports missing credentials needed by the generation pipeline.
func (c Config) ValidateGeneration() error {
	ve := domainerr.ValidationError{Kind: domainerr.ErrMissingConfig}

	switch c.News.Provider {
	case NewsAPI:
		if strings.TrimSpace(c.News.APIKey) == "" {
			ve.Add("news.api_key", "must be set (NEWS_API_KEY)")
		}
	case NewsFeeds:
		if len(c.News.Feeds) == 0 {
			ve.Add("news.feeds", "must list at least one feed")
		}
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		ve.Add("llm.api_key", "must be set (GROQ_API_KEY or LLM_API_KEY)")
	}
	if c.Publish.Enabled {
		if strings.TrimSpace(c.Publish.Token) == "" {
			ve.Add("publish.token", "must be set (GITHUB_TOKEN)")
		}
		if strings.TrimSpace(c.Publish.Owner) == "" {
			ve.Add("publish.owner", "must be set (GITHUB_OWNER)")
		}
		if strings.TrimSpace(c.Publish.Repo) == "" {
			ve.Add("publish.repo", "must be set (GITHUB_REPO)")
		}
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// file values override defaults, untouched fields keep Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return finish(cfg)
}

func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return finish(cfg)
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	cfg.ApplyEnv()
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
