// Package poll implements the poll-until-complete loop for long-running
// operations: submit, then check status with fixed or exponential delay
// until a terminal state, a timeout, or an attempt limit.
//
//	poller := poll.New(cfg.Poll, metrics, logger)
//	status, err := poller.Wait(ctx, job.ID, func(ctx context.Context) (operation.Status, error) {
//	    return client.JobStatus(ctx, job)
//	})
//
// A failed terminal status is returned together with an error wrapping
// domain.ErrOperationFailed, so callers can print the service's message.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/operation"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/backoff"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/gcp"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/telemetry"
)

var (
	// ErrTimeout is returned when poll.timeout elapses before a terminal state.
	ErrTimeout = errors.New("timed out waiting for operation")
	// ErrAttemptsExhausted is returned after poll.max_attempts non-terminal checks.
	ErrAttemptsExhausted = errors.New("operation still running after max attempts")
)

// CheckFunc fetches the current status of an operation.
type CheckFunc func(ctx context.Context) (operation.Status, error)

// Option configures a Poller.
type Option func(*Poller)

// WithRetryable overrides the classifier for transient check errors.
// The default is gcp.IsRetryable.
func WithRetryable(fn func(error) bool) Option {
	return func(p *Poller) {
		p.retryable = fn
	}
}

// WithoutJitter makes the wait schedule exact.
func WithoutJitter() Option {
	return func(p *Poller) {
		p.policy.NoJitter = true
	}
}

// Poller waits for long-running operations. Safe for concurrent use.
type Poller struct {
	policy      backoff.Policy
	timeout     time.Duration
	maxAttempts int
	retryable   func(error) bool
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

// New builds a Poller from poll configuration. If metrics is nil, metric
// recording is skipped.
func New(cfg config.PollConfig, metrics *telemetry.Metrics, logger *slog.Logger, opts ...Option) *Poller {
	p := &Poller{
		policy: backoff.Policy{
			Initial:    cfg.InitialInterval,
			Max:        cfg.MaxInterval,
			Multiplier: cfg.Multiplier,
			Fixed:      cfg.Fixed,
		},
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		retryable:   gcp.IsRetryable,
		metrics:     metrics,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait calls check until it reports a terminal status.
//
// A successful terminal status returns (status, nil). A failed one returns
// the status and status.Err(). Check errors classified as transient count as
// an attempt and polling continues; any other check error stops the loop.
// When poll.timeout elapses the error wraps ErrTimeout, and when the parent
// context ends the error is the context's.
func (p *Poller) Wait(ctx context.Context, name string, check CheckFunc) (operation.Status, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "poll "+name,
		trace.WithAttributes(attribute.String("operation", name)))
	defer span.End()

	parent := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, p.timeout, ErrTimeout)
		defer cancel()
	}

	last := operation.Status{Name: name, State: operation.StatePending}

	for attempt := 1; ; attempt++ {
		status, err := check(ctx)
		if status.Name == "" {
			status.Name = name
		}

		switch {
		case err != nil && ctx.Err() != nil:
			return p.finish(ctx, span, last, attempt, p.stopped(ctx, parent, name))
		case err != nil && !p.retryable(err):
			return p.finish(ctx, span, last, attempt, fmt.Errorf("checking operation %s: %w", name, err))
		case err != nil:
			p.logger.DebugContext(ctx, "transient error checking operation",
				slog.String("operation", name),
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
		case status.Terminal():
			return p.finish(ctx, span, status, attempt, status.Err())
		default:
			last = status
			p.logger.DebugContext(ctx, "operation still running",
				slog.String("operation", name),
				slog.String("state", status.State.String()),
				slog.Int("attempt", attempt),
			)
		}

		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return p.finish(ctx, span, last, attempt,
				fmt.Errorf("%s: %w (%d)", name, ErrAttemptsExhausted, p.maxAttempts))
		}

		if err := sleep(ctx, p.policy.Delay(attempt)); err != nil {
			return p.finish(ctx, span, last, attempt, p.stopped(ctx, parent, name))
		}
	}
}

// stopped maps a finished context to ErrTimeout or the parent's error.
func (p *Poller) stopped(ctx, parent context.Context, name string) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(context.Cause(ctx), ErrTimeout) {
		return fmt.Errorf("%s: %w after %s", name, ErrTimeout, p.timeout)
	}
	return ctx.Err()
}

func (p *Poller) finish(
	ctx context.Context, span trace.Span, status operation.Status, attempts int, err error,
) (operation.Status, error) {
	result := telemetry.ResultSuccess
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrAttemptsExhausted):
		result = telemetry.ResultTimeout
	case err != nil:
		result = telemetry.ResultError
	}
	p.metrics.RecordPoll(context.WithoutCancel(ctx), status.Name, result, attempts)

	span.SetAttributes(attribute.Int("attempts", attempts), attribute.String("state", status.State.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.WarnContext(ctx, "operation did not succeed",
			slog.String("operation", status.Name),
			slog.String("state", status.State.String()),
			slog.Int("attempts", attempts),
			slog.Any("error", err),
		)
		return status, err
	}

	p.logger.InfoContext(ctx, "operation completed",
		slog.String("operation", status.Name),
		slog.String("state", status.State.String()),
		slog.Int("attempts", attempts),
	)
	return status, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DoneFunc reports whether an operation has finished. When done is true a
// non-nil error is the operation's own failure; when done is false it is an
// error fetching the status. Long-running operation handles such as
// ports.Transcription expose Poll in this shape.
type DoneFunc func(ctx context.Context) (done bool, err error)

// WaitFunc adapts a DoneFunc to a CheckFunc.
func WaitFunc(name string, fn DoneFunc) CheckFunc {
	return func(ctx context.Context) (operation.Status, error) {
		done, err := fn(ctx)
		switch {
		case done && err != nil:
			return operation.Status{Name: name, State: operation.StateFailed, ErrorMessage: err.Error()}, nil
		case done:
			return operation.Status{Name: name, State: operation.StateDone}, nil
		default:
			return operation.Status{Name: name, State: operation.StateRunning}, err
		}
	}
}
