package gcp

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
)

// Breaker guards calls to one Google Cloud service. Only transient failures
// (see IsRetryable) count toward tripping; NotFound and validation errors
// are ordinary answers. Breaker satisfies ports.HealthChecker.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreaker creates a Breaker named after the guarded service.
func NewBreaker(name string, cfg config.CircuitBreakerConfig, logger *slog.Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return &Breaker{name: name, cb: cb}
}

// Do runs fn through the breaker and translates its error.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	return TranslateError(err)
}

// Call runs fn through b and returns its result with a translated error.
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var out T
	err := b.Do(func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// Name returns the guarded service name.
func (b *Breaker) Name() string {
	return b.name
}

// HealthCheck reports the service's availability from the breaker state.
// No network call is made.
func (b *Breaker) HealthCheck(_ context.Context) error {
	switch state := b.cb.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", b.name)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", b.name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", b.name, state)
	}
}

func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
