// Package llm wraps the text-completion providers used by the pipeline.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aiblog/internal/domain/config"
	"aiblog/internal/logging"
)

// ErrEmpty is returned when a provider answers without any text.
var ErrEmpty = errors.New("llm: empty completion")

type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer turns one prompt into one completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// New builds the configured provider wrapped in a circuit breaker.
func New(ctx context.Context, cfg config.LLMConfig, log logging.Logger) (Completer, error) {
	var (
		c   Completer
		err error
	)
	switch cfg.Provider {
	case config.LLMOpenAI, "":
		c = NewOpenAI(OpenAIOptions{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
	case config.LLMGemini:
		c, err = NewGemini(ctx, GeminiOptions{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	return NewBreaker(c, BreakerOptions{
		Name:      string(cfg.Provider),
		Threshold: cfg.BreakerThreshold,
		Delay:     cfg.BreakerDelay,
		Logger:    log,
	}), nil
}

func trimmed(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}
