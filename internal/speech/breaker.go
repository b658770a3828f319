package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSynthesizer guards a primary synthesizer with a circuit breaker and
// falls back to a secondary one when the primary fails or the breaker is open.
type BreakerSynthesizer struct {
	primary  Synthesizer
	fallback Synthesizer
	cb       *gobreaker.CircuitBreaker
	logger   *log.Logger
}

// BreakerSettings tunes when the breaker trips
type BreakerSettings struct {
	MaxFailures uint32        // consecutive failures before opening
	OpenTimeout time.Duration // time in open state before probing again
}

// DefaultBreakerSettings returns the default breaker settings
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// NewBreakerSynthesizer creates a synthesizer that falls back to secondary
func NewBreakerSynthesizer(primary, fallback Synthesizer, settings BreakerSettings, logger *log.Logger) *BreakerSynthesizer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	b := &BreakerSynthesizer{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        primary.Name(),
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A cancelled utterance says nothing about the primary's health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("speech: breaker %s %s -> %s", name, from, to)
		},
	})

	return b
}

// Synthesize tries the primary through the breaker, then the fallback
func (b *BreakerSynthesizer) Synthesize(ctx context.Context, text string, rate float64, base string) (string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.primary.Synthesize(ctx, text, rate, base)
	})
	if err == nil {
		return res.(string), nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	b.logger.Printf("speech: primary synthesizer (%s) failed: %v. Falling back to %s",
		b.primary.Name(), err, b.fallback.Name())

	return b.fallback.Synthesize(ctx, text, rate, base)
}

// State returns the breaker state
func (b *BreakerSynthesizer) State() gobreaker.State {
	return b.cb.State()
}

// Name returns the synthesizer name
func (b *BreakerSynthesizer) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", b.primary.Name(), b.fallback.Name())
}

// IsAvailable checks if at least one synthesizer is available
func (b *BreakerSynthesizer) IsAvailable() error {
	primaryErr := b.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := b.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both synthesizers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
