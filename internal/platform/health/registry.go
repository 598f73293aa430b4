// Package health provides a thread-safe health check registry for tracking
// the health of downstream dependencies. The registry is used by the readiness
// endpoint to determine whether the service can accept traffic.
//
// Checks run concurrently. A probe against a slow Google API or a stalled
// Cloud SQL connection is bounded by the per-check timeout so one dependency
// cannot hold the readiness endpoint past the platform's probe deadline.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// DefaultCheckTimeout bounds a single health check when no option overrides it.
const DefaultCheckTimeout = 2 * time.Second

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

// Registry is a thread-safe implementation of [ports.HealthRegistry].
// Components that implement [ports.HealthChecker] are registered at startup
// and checked on each readiness probe.
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
	timeout  time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout sets the deadline applied to each individual check.
// Non-positive values disable the per-check deadline.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{timeout: DefaultCheckTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll executes all registered health checks and returns results keyed by
// checker name. Nil values indicate healthy components. When two checkers
// share a name the one registered last wins.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	errs := make([]error, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.check(ctx, c)
		}()
	}
	wg.Wait()

	results := make(map[string]error, len(checkers))
	for i, c := range checkers {
		results[c.Name()] = errs[i]
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) error {
	if r.timeout <= 0 {
		return c.HealthCheck(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := c.HealthCheck(ctx)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("timed out after %s: %w", r.timeout, err)
	}
	return err
}
