package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiblog/internal/domain/config"
	domainerr "aiblog/internal/domain/errors"
	"aiblog/internal/logging"
	"aiblog/internal/news"
	"aiblog/internal/publish"
)

func testEnv(t *testing.T) *env {
	t.Helper()
	cfg := config.Default()
	cfg.Content.Dir = t.TempDir()
	cfg.Server.RunLogPath = filepath.Join(t.TempDir(), "runs.db")
	cfg.Build.PublicDir = filepath.Join(t.TempDir(), "public")
	return &env{cfg: cfg, log: logging.NewWithOutput(&bytes.Buffer{}, "error", "text")}
}

func TestNewNewsSourceByProvider(t *testing.T) {
	e := testEnv(t)
	assert.IsType(t, &news.NewsAPI{}, newNewsSource(e))

	e.cfg.News.Provider = config.NewsFeeds
	e.cfg.News.Feeds = []string{"https://example.com/rss"}
	assert.IsType(t, &news.Feeds{}, newNewsSource(e))
}

func TestNewPublisher(t *testing.T) {
	e := testEnv(t)
	assert.IsType(t, &publish.GitHub{}, newPublisher(e))

	e.cfg.Publish.Enabled = false
	assert.Nil(t, newPublisher(e))
}

func TestNewGeneratorRequiresCredentials(t *testing.T) {
	e := testEnv(t)
	_, err := newGenerator(context.Background(), e, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrMissingConfig)
	assert.Contains(t, err.Error(), "news.api_key")

	e.cfg.News.APIKey = "news"
	e.cfg.LLM.APIKey = "llm"
	e.cfg.Publish.Enabled = false
	g, err := newGenerator(context.Background(), e, nil)
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestBuildCommand(t *testing.T) {
	e := testEnv(t)
	post := "---\ntitle: Alpha\ndate: 2024-06-01\ntags: [AI]\n---\n\nBody.\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.cfg.Content.Dir, "alpha.mdx"), []byte(post), 0o644))

	cmd := newBuildCmd(e)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.True(t, strings.HasPrefix(out.String(), "built "), out.String())
	_, err := os.Stat(filepath.Join(e.cfg.Build.PublicDir, "blog", "alpha", "index.html"))
	assert.NoError(t, err)
}

func TestLoadEnvDefaultsWhenConfigMissing(t *testing.T) {
	for _, k := range []string{"NEWS_API_KEY", "GROQ_API_KEY", "LLM_API_KEY", "LLM_PROVIDER", "LLM_MODEL", "LLM_API_URL", "LOG_LEVEL", "AIBLOG_ADDR", "PUBLISH_ENABLED"} {
		t.Setenv(k, "")
	}
	e, err := loadEnv(rootFlags{
		configPath: filepath.Join(t.TempDir(), "missing.yaml"),
		envFiles:   []string{filepath.Join(t.TempDir(), "missing.env")},
		logLevel:   "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, "blog", e.cfg.Content.Dir)
	assert.Equal(t, "debug", e.cfg.Log.Level)
	assert.NotNil(t, e.metrics)
}
