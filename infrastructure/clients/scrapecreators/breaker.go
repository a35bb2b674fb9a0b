package scrapecreators

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"imospy/domain/platform"
	"imospy/infrastructure/logger"
)

// BreakerConfig configures the circuit breaker around LinkedIn detail calls.
type BreakerConfig struct {
	// FailureThreshold failures out of the last Window calls open the breaker.
	FailureThreshold uint
	Window           uint
	// Delay is how long the breaker stays open before probing again.
	Delay            time.Duration
	SuccessThreshold uint
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		Window:           10,
		Delay:            30 * time.Second,
		SuccessThreshold: 1,
	}
}

// BreakerFetcher fails fast while the detail endpoint keeps failing, so a
// batch degrades to listing data instead of waiting on every post.
type BreakerFetcher struct {
	fetcher platform.DetailFetcher
	cb      circuitbreaker.CircuitBreaker[*platform.LinkedInPostDetail]
}

func NewBreakerFetcher(fetcher platform.DetailFetcher, cfg BreakerConfig) *BreakerFetcher {
	def := DefaultBreakerConfig()
	if cfg.Window == 0 {
		cfg.Window = def.Window
	}
	if cfg.FailureThreshold == 0 || cfg.FailureThreshold > cfg.Window {
		cfg.FailureThreshold = (cfg.Window + 1) / 2
	}
	if cfg.Delay <= 0 {
		cfg.Delay = def.Delay
	}
	if cfg.SuccessThreshold == 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}

	cb := circuitbreaker.NewBuilder[*platform.LinkedInPostDetail]().
		WithFailureThresholdRatio(cfg.FailureThreshold, cfg.Window).
		WithDelay(cfg.Delay).
		WithSuccessThreshold(cfg.SuccessThreshold).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			logger.GetLogger().
				WithField("circuit_breaker", "linkedin_post_detail").
				WithField("from_state", stateName(event.OldState)).
				WithField("to_state", stateName(event.NewState)).
				Warn("circuit breaker state change")
		}).
		Build()

	return &BreakerFetcher{fetcher: fetcher, cb: cb}
}

func (b *BreakerFetcher) GetLinkedInPost(ctx context.Context, postURL string) (*platform.LinkedInPostDetail, error) {
	return failsafe.With(b.cb).Get(func() (*platform.LinkedInPostDetail, error) {
		return b.fetcher.GetLinkedInPost(ctx, postURL)
	})
}

// IsOpen reports whether detail calls are currently short-circuited.
func (b *BreakerFetcher) IsOpen() bool {
	return b.cb.IsOpen()
}

func stateName(s circuitbreaker.State) string {
	switch s {
	case circuitbreaker.OpenState:
		return "open"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	default:
		return "closed"
	}
}
