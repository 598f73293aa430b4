package operation

import (
	"errors"
	"strings"
	"testing"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

func TestParseState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want State
	}{
		{in: "DONE", want: StateDone},
		{in: "done", want: StateDone},
		{in: " running ", want: StateRunning},
		{in: "CANCELED", want: StateCancelled},
		{in: "SUCCESS", want: StateSucceeded},
		{in: "", want: StatePending},
		{in: "QUEUED", want: StateRunning},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := ParseState(tt.in); got != tt.want {
				t.Errorf("ParseState(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestState_Terminal(t *testing.T) {
	t.Parallel()

	terminal := []State{StateDone, StateSucceeded, StateFailed, StateCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}
	for _, s := range []State{StatePending, StateRunning} {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestStatus_Err(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   Status
		wantErr  bool
		contains string
	}{
		{name: "running", status: Status{State: StateRunning}},
		{name: "done clean", status: Status{State: StateDone}},
		{name: "succeeded", status: Status{State: StateSucceeded}},
		{
			name:     "done with error message",
			status:   Status{Name: "job-1", State: StateDone, ErrorMessage: "Not found: Table x"},
			wantErr:  true,
			contains: "Not found: Table x",
		},
		{
			name:     "failed without message",
			status:   Status{State: StateFailed},
			wantErr:  true,
			contains: "finished in state FAILED",
		},
		{
			name:     "cancelled",
			status:   Status{Name: "op", State: StateCancelled},
			wantErr:  true,
			contains: "op",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.status.Err()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Err() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrOperationFailed) {
				t.Fatalf("errors.Is(err, ErrOperationFailed) = false, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Err() = %q, want it to contain %q", err.Error(), tt.contains)
			}
		})
	}
}
