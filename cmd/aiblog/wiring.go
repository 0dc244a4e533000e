package main

import (
	"context"

	"aiblog/internal/blog"
	"aiblog/internal/domain/config"
	"aiblog/internal/generate"
	"aiblog/internal/llm"
	"aiblog/internal/news"
	"aiblog/internal/publish"
	"aiblog/internal/runlog"
)

func newStore(e *env, cached bool) *blog.Store {
	opts := []blog.Option{
		blog.WithExtension(e.cfg.Content.Extension),
		blog.WithLogger(e.log),
		blog.WithObserver(e.metrics),
	}
	if cached || e.cfg.Content.Cache {
		opts = append(opts, blog.WithCache())
	}
	return blog.New(e.cfg.Content.Dir, opts...)
}

func newNewsSource(e *env) news.Source {
	c := e.cfg.News
	if c.Provider == config.NewsFeeds {
		return news.NewFeeds(news.FeedsOptions{
			URLs:     c.Feeds,
			PageSize: c.PageSize,
			Timeout:  c.Timeout,
			Logger:   e.log,
		})
	}
	return news.NewNewsAPI(news.NewsAPIOptions{
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Sources:  c.Sources,
		PageSize: c.PageSize,
		Timeout:  c.Timeout,
	})
}

// newPublisher returns nil when publishing is disabled.
func newPublisher(e *env) publish.Publisher {
	c := e.cfg.Publish
	if !c.Enabled {
		return nil
	}
	return publish.NewGitHub(publish.GitHubOptions{
		Token:   c.Token,
		Owner:   c.Owner,
		Repo:    c.Repo,
		Branch:  c.Branch,
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
	})
}

func openRuns(e *env) (*runlog.Store, error) {
	return runlog.Open(runlog.OpenOptions{Path: e.cfg.Server.RunLogPath})
}

// newGenerator checks credentials before building anything, so a missing
// key fails before any request is made.
func newGenerator(ctx context.Context, e *env, runs *runlog.Store) (*generate.Generator, error) {
	if err := e.cfg.ValidateGeneration(); err != nil {
		return nil, err
	}
	completer, err := llm.New(ctx, e.cfg.LLM, e.log)
	if err != nil {
		return nil, err
	}
	return generate.New(generate.Deps{
		News:      newNewsSource(e),
		LLM:       completer,
		Publisher: newPublisher(e),
		Runs:      runs,
		Logger:    e.log,
		Metrics:   e.metrics,
	}, generate.Options{
		Topic:         e.cfg.Generate.Topic,
		FallbackQuery: e.cfg.News.FallbackQuery,
		ContentDir:    e.cfg.Content.Dir,
		Extension:     e.cfg.Content.Extension,
		PathPrefix:    e.cfg.Publish.PathPrefix,
		PromptBudget:  e.cfg.Generate.PromptBudget,
		OncePerDay:    e.cfg.Generate.OncePerDay,
	})
}
