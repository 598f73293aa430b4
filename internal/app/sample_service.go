// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/gcp-samples/internal/app/fanout"
	"github.com/jsamuelsen11/gcp-samples/internal/app/samples"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/poll"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/telemetry"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// Compile-time check that SampleService implements ports.SampleService.
var _ ports.SampleService = (*SampleService)(nil)

// SampleService implements ports.SampleService on top of the sample
// registry. It binds arguments, wraps every run in a span, records run
// metrics and logs the outcome. Samples themselves stay unaware of all that.
type SampleService struct {
	registry *samples.Registry
	workers  int
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// NewSampleService creates a SampleService. workers bounds RunBatch
// concurrency. A nil metrics skips recording; a nil logger discards logs.
func NewSampleService(registry *samples.Registry, workers int, metrics *telemetry.Metrics, logger *slog.Logger) *SampleService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SampleService{
		registry: registry,
		workers:  workers,
		metrics:  metrics,
		logger:   logger,
	}
}

// List returns registered samples sorted by product then name.
func (s *SampleService) List(product string) []sample.Sample {
	return s.registry.List(product)
}

// Describe returns the named sample's descriptor.
func (s *SampleService) Describe(name string) (sample.Sample, error) {
	e, err := s.registry.Lookup(name)
	if err != nil {
		return sample.Sample{}, err
	}
	return e.Sample, nil
}

// Run binds args and executes the named sample, writing its output to out.
func (s *SampleService) Run(ctx context.Context, name string, args []string, out io.Writer) error {
	e, err := s.registry.Lookup(name)
	if err != nil {
		return err
	}

	bound, err := e.Sample.Bind(args)
	if err != nil {
		return err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "sample "+name,
		trace.WithAttributes(
			telemetry.AttrSample.String(name),
			telemetry.AttrProduct.String(e.Sample.Product),
		))
	defer span.End()

	s.logger.InfoContext(ctx, "running sample",
		slog.String("sample", name),
		slog.String("product", e.Sample.Product),
		slog.Int("args", len(args)),
	)

	start := time.Now()
	err = e.Run(ctx, bound, out)
	elapsed := time.Since(start)

	result := runResult(err)
	s.metrics.RecordSampleRun(context.WithoutCancel(ctx), name, e.Sample.Product, result, elapsed.Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "sample failed",
			slog.String("operation", "Run"),
			slog.String("sample", name),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
		return err
	}

	s.logger.InfoContext(ctx, "sample completed",
		slog.String("sample", name),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

// RunBatch executes invocations with at most the configured number of
// concurrent runs. Each invocation captures its own output.
func (s *SampleService) RunBatch(ctx context.Context, invocations []ports.Invocation) []ports.RunResult {
	s.logger.InfoContext(ctx, "running batch",
		slog.Int("invocations", len(invocations)),
		slog.Int("workers", s.workers),
	)

	results := fanout.Run(ctx, s.workers, invocations, func(ctx context.Context, inv ports.Invocation) (ports.RunResult, error) {
		return s.invoke(ctx, inv), nil
	})

	out := make([]ports.RunResult, len(results))
	for i, r := range results {
		out[i] = r.Value
		out[i].Invocation = invocations[i]
		if r.Err != nil {
			out[i].Err = r.Err
		}
	}
	return out
}

// invoke runs one invocation into a private buffer.
func (s *SampleService) invoke(ctx context.Context, inv ports.Invocation) ports.RunResult {
	var buf bytes.Buffer
	start := time.Now()
	err := s.Run(ctx, inv.Sample, inv.Args, &buf)
	return ports.RunResult{
		Invocation: inv,
		Output:     buf.String(),
		Err:        err,
		Duration:   time.Since(start),
	}
}

func runResult(err error) string {
	switch {
	case err == nil:
		return telemetry.ResultSuccess
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, poll.ErrTimeout),
		errors.Is(err, poll.ErrAttemptsExhausted):
		return telemetry.ResultTimeout
	default:
		return telemetry.ResultError
	}
}
