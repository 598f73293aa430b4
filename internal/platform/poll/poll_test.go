package poll_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/operation"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/poll"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errTransient = errors.New("transient")

func testConfig() config.PollConfig {
	return config.PollConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
		Timeout:         5 * time.Second,
	}
}

func newPoller(cfg config.PollConfig) *poll.Poller {
	return poll.New(cfg, nil, slog.New(slog.DiscardHandler),
		poll.WithRetryable(func(err error) bool { return errors.Is(err, errTransient) }),
		poll.WithoutJitter(),
	)
}

// sequence returns a CheckFunc that replays states in order, repeating the last.
func sequence(calls *atomic.Int32, statuses ...operation.Status) poll.CheckFunc {
	return func(_ context.Context) (operation.Status, error) {
		n := int(calls.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		return statuses[n], nil
	}
}

func TestWait_SucceedsAfterRunning(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	check := sequence(&calls,
		operation.Status{State: operation.StatePending},
		operation.Status{State: operation.StateRunning},
		operation.Status{State: operation.StateDone},
	)

	status, err := newPoller(testConfig()).Wait(context.Background(), "job-1", check)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if status.State != operation.StateDone {
		t.Errorf("State = %s, want DONE", status.State)
	}
	if status.Name != "job-1" {
		t.Errorf("Name = %q, want job-1", status.Name)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("checks = %d, want 3", got)
	}
}

func TestWait_TerminalFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  operation.Status
		wantMsg string
	}{
		{
			name:    "failed with message",
			status:  operation.Status{State: operation.StateFailed, ErrorMessage: "quota exceeded"},
			wantMsg: "quota exceeded",
		},
		{
			name:    "done with error",
			status:  operation.Status{State: operation.StateDone, ErrorMessage: "access denied"},
			wantMsg: "access denied",
		},
		{
			name:    "cancelled",
			status:  operation.Status{State: operation.StateCancelled},
			wantMsg: "CANCELLED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			check := sequence(&calls, operation.Status{State: operation.StateRunning}, tt.status)

			status, err := newPoller(testConfig()).Wait(context.Background(), "op", check)
			if !errors.Is(err, domain.ErrOperationFailed) {
				t.Fatalf("Wait() error = %v, want ErrOperationFailed", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
			if status.State != tt.status.State {
				t.Errorf("State = %s, want %s", status.State, tt.status.State)
			}
		})
	}
}

func TestWait_TransientErrorsContinue(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	check := func(_ context.Context) (operation.Status, error) {
		if calls.Add(1) < 3 {
			return operation.Status{}, errTransient
		}
		return operation.Status{State: operation.StateSucceeded}, nil
	}

	status, err := newPoller(testConfig()).Wait(context.Background(), "op", check)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if status.State != operation.StateSucceeded {
		t.Errorf("State = %s, want SUCCEEDED", status.State)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("checks = %d, want 3", got)
	}
}

func TestWait_FatalErrorStops(t *testing.T) {
	t.Parallel()

	fatal := errors.New("permission denied")
	var calls atomic.Int32
	check := func(_ context.Context) (operation.Status, error) {
		calls.Add(1)
		return operation.Status{}, fatal
	}

	_, err := newPoller(testConfig()).Wait(context.Background(), "op", check)
	if !errors.Is(err, fatal) {
		t.Fatalf("Wait() error = %v, want wrapped fatal error", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("checks = %d, want 1", got)
	}
}

func TestWait_MaxAttempts(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxAttempts = 4

	var calls atomic.Int32
	check := sequence(&calls, operation.Status{State: operation.StateRunning, Progress: 40})

	status, err := newPoller(cfg).Wait(context.Background(), "op", check)
	if !errors.Is(err, poll.ErrAttemptsExhausted) {
		t.Fatalf("Wait() error = %v, want ErrAttemptsExhausted", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("checks = %d, want 4", got)
	}
	if status.Progress != 40 {
		t.Errorf("Progress = %d, want last observed 40", status.Progress)
	}
}

func TestWait_Timeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	cfg.Fixed = true
	cfg.InitialInterval = 5 * time.Millisecond

	var calls atomic.Int32
	check := sequence(&calls, operation.Status{State: operation.StateRunning})

	_, err := newPoller(cfg).Wait(context.Background(), "op", check)
	if !errors.Is(err, poll.ErrTimeout) {
		t.Fatalf("Wait() error = %v, want ErrTimeout", err)
	}
}

func TestWait_ParentCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	check := func(_ context.Context) (operation.Status, error) {
		if calls.Add(1) == 2 {
			cancel()
		}
		return operation.Status{State: operation.StateRunning}, nil
	}

	_, err := newPoller(testConfig()).Wait(ctx, "op", check)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, poll.ErrTimeout) {
		t.Error("parent cancellation reported as ErrTimeout")
	}
}

func TestWaitFunc(t *testing.T) {
	t.Parallel()

	opErr := errors.New("bad query")
	fetchErr := errors.New("fetch failed")

	tests := []struct {
		name      string
		done      bool
		err       error
		wantState operation.State
		wantErr   error
	}{
		{name: "running", wantState: operation.StateRunning},
		{name: "done", done: true, wantState: operation.StateDone},
		{name: "done with failure", done: true, err: opErr, wantState: operation.StateFailed},
		{name: "fetch error", err: fetchErr, wantState: operation.StateRunning, wantErr: fetchErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			check := poll.WaitFunc("job", func(context.Context) (bool, error) { return tt.done, tt.err })
			status, err := check(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if status.State != tt.wantState {
				t.Errorf("State = %s, want %s", status.State, tt.wantState)
			}
			if tt.wantState == operation.StateFailed && status.ErrorMessage != "bad query" {
				t.Errorf("ErrorMessage = %q, want %q", status.ErrorMessage, "bad query")
			}
		})
	}
}
