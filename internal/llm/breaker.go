package llm

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"aiblog/internal/logging"
)

// ErrBreakerOpen is returned while the breaker rejects calls.
var ErrBreakerOpen = circuitbreaker.ErrOpen

type BreakerOptions struct {
	Name string
	// Threshold is the number of consecutive failures that opens the
	// breaker. Default: 5
	Threshold int
	// Delay is how long the breaker stays open. Default: 30 seconds.
	Delay  time.Duration
	Logger logging.Logger
}

// Breaker stops calling a failing provider for a while so a dead
// upstream fails fast instead of holding a request for the full timeout.
type Breaker struct {
	next Completer
	cb   circuitbreaker.CircuitBreaker[string]
}

func NewBreaker(next Completer, opt BreakerOptions) *Breaker {
	if opt.Threshold <= 0 {
		opt.Threshold = 5
	}
	if opt.Delay <= 0 {
		opt.Delay = 30 * time.Second
	}
	if opt.Name == "" {
		opt.Name = "llm"
	}
	log := logging.Component(opt.Logger, "llm")

	cb := circuitbreaker.NewBuilder[string]().
		HandleIf(func(_ string, err error) bool {
			// the caller giving up says nothing about the provider
			return err != nil && !errors.Is(err, context.Canceled)
		}).
		WithFailureThreshold(uint(opt.Threshold)).
		WithDelay(opt.Delay).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			log.WithFields(logging.Fields{
				"circuit_breaker": opt.Name,
				"from_state":      stateName(e.OldState),
				"to_state":        stateName(e.NewState),
			}).Warn("circuit breaker state change")
		}).
		Build()

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Complete(ctx context.Context, req Request) (string, error) {
	return failsafe.With(b.cb).WithContext(ctx).Get(func() (string, error) {
		return b.next.Complete(ctx, req)
	})
}

func (b *Breaker) IsOpen() bool {
	return b.cb.IsOpen()
}

func stateName(s circuitbreaker.State) string {
	switch s {
	case circuitbreaker.ClosedState:
		return "closed"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	case circuitbreaker.OpenState:
		return "open"
	default:
		return "unknown"
	}
}
