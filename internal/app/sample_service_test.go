package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/gcp-samples/internal/app/samples"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/poll"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/telemetry"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testRegistry holds an echo sample, a failing sample and a sample that
// blocks until its context ends.
func testRegistry(t *testing.T) *samples.Registry {
	t.Helper()
	r := samples.NewRegistry()

	r.Register(sample.Sample{
		Name:    "echo",
		Product: "test",
		Summary: "Prints its arguments.",
		Params: []sample.Param{
			{Name: "WORD"},
			{Name: "SUFFIX", Optional: true, Default: "!"},
		},
	}, func(_ context.Context, args sample.Args, out io.Writer) error {
		_, err := fmt.Fprintf(out, "%s%s\n", args.String("WORD"), args.String("SUFFIX"))
		return err
	})

	r.Register(sample.Sample{Name: "fail", Product: "test", Summary: "Always fails."},
		func(_ context.Context, _ sample.Args, out io.Writer) error {
			_, _ = io.WriteString(out, "about to fail\n")
			return fmt.Errorf("bucket gone: %w", domain.ErrNotFound)
		})

	r.Register(sample.Sample{Name: "block", Product: "other", Summary: "Waits for cancellation."},
		func(ctx context.Context, _ sample.Args, _ io.Writer) error {
			<-ctx.Done()
			return ctx.Err()
		})

	return r
}

func TestNewSampleService_NilLogger(t *testing.T) {
	t.Parallel()

	svc := NewSampleService(samples.NewRegistry(), 1, nil, nil)
	require.NotNil(t, svc.logger)
}

func TestSampleService_ListAndDescribe(t *testing.T) {
	t.Parallel()
	svc := NewSampleService(testRegistry(t), 2, nil, discardLogger())

	all := svc.List("")
	require.Len(t, all, 3)
	assert.Equal(t, "block", all[0].Name, "sorted by product first")

	onlyTest := svc.List("test")
	require.Len(t, onlyTest, 2)
	assert.Equal(t, []string{"echo", "fail"}, []string{onlyTest[0].Name, onlyTest[1].Name})

	s, err := svc.Describe("echo")
	require.NoError(t, err)
	assert.Equal(t, "Prints its arguments.", s.Summary)

	_, err = svc.Describe("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSampleService_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sample  string
		args    []string
		want    string
		wantErr error
	}{
		{name: "default applied", sample: "echo", args: []string{"hi"}, want: "hi!\n"},
		{name: "optional given", sample: "echo", args: []string{"hi", "?"}, want: "hi?\n"},
		{name: "missing argument", sample: "echo", args: nil, wantErr: domain.ErrValidation},
		{name: "too many arguments", sample: "echo", args: []string{"a", "b", "c"}, wantErr: domain.ErrValidation},
		{name: "unknown sample", sample: "nope", wantErr: domain.ErrNotFound},
		{name: "sample error", sample: "fail", want: "about to fail\n", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewSampleService(testRegistry(t), 1, nil, discardLogger())

			var out bytes.Buffer
			err := svc.Run(context.Background(), tt.sample, tt.args, &out)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestSampleService_RunBatch(t *testing.T) {
	t.Parallel()
	svc := NewSampleService(testRegistry(t), 2, nil, discardLogger())

	invocations := []ports.Invocation{
		{Sample: "echo", Args: []string{"one"}},
		{Sample: "fail"},
		{Sample: "echo", Args: []string{"two", "."}},
		{Sample: "missing"},
	}

	results := svc.RunBatch(context.Background(), invocations)
	require.Len(t, results, len(invocations))

	for i, r := range results {
		assert.Equal(t, invocations[i], r.Invocation, "result %d keeps input order", i)
	}
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "one!\n", results[0].Output)
	assert.ErrorIs(t, results[1].Err, domain.ErrNotFound)
	assert.Equal(t, "about to fail\n", results[1].Output)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "two.\n", results[2].Output)
	assert.ErrorIs(t, results[3].Err, domain.ErrNotFound)
}

func TestSampleService_RunBatchBoundsConcurrency(t *testing.T) {
	t.Parallel()

	var running, peak atomic.Int32
	r := samples.NewRegistry()
	r.Register(sample.Sample{Name: "slow", Product: "test", Summary: "Sleeps."},
		func(_ context.Context, _ sample.Args, _ io.Writer) error {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return nil
		})

	svc := NewSampleService(r, 2, nil, discardLogger())
	invocations := make([]ports.Invocation, 6)
	for i := range invocations {
		invocations[i] = ports.Invocation{Sample: "slow"}
	}

	for _, res := range svc.RunBatch(context.Background(), invocations) {
		require.NoError(t, res.Err)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSampleService_RunBatchCanceled(t *testing.T) {
	t.Parallel()
	svc := NewSampleService(testRegistry(t), 1, nil, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	results := svc.RunBatch(ctx, []ports.Invocation{{Sample: "block"}, {Sample: "block"}})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
		assert.Equal(t, "block", r.Invocation.Sample)
	}
}

func TestRunResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", want: telemetry.ResultSuccess},
		{name: "deadline", err: context.DeadlineExceeded, want: telemetry.ResultTimeout},
		{name: "poll timeout", err: fmt.Errorf("job: %w", poll.ErrTimeout), want: telemetry.ResultTimeout},
		{name: "attempts", err: poll.ErrAttemptsExhausted, want: telemetry.ResultTimeout},
		{name: "other", err: errors.New("boom"), want: telemetry.ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, runResult(tt.err))
		})
	}
}
