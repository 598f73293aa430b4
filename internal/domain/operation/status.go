// Package operation models the status of long-running operations (BigQuery
// jobs, LRO-backed admin calls, transfer jobs) as seen by the poller.
package operation

import (
	"fmt"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// Status is a point-in-time snapshot of a long-running operation.
type Status struct {
	// Name identifies the operation (job ID or operation resource name).
	Name string
	// State is the lifecycle state at the time of the check.
	State State
	// ErrorMessage is the service-reported failure reason, if any.
	ErrorMessage string
	// Progress is an optional completion percentage in [0, 100].
	Progress int
}

// Terminal reports whether the operation has finished, successfully or not.
func (s Status) Terminal() bool {
	return s.State.Terminal()
}

// Succeeded reports whether the operation finished without error. A DONE
// state that carries an error message is a failure.
func (s Status) Succeeded() bool {
	switch s.State {
	case StateSucceeded:
		return true
	case StateDone:
		return s.ErrorMessage == ""
	default:
		return false
	}
}

// Err returns nil for a successful terminal status and an error wrapping
// domain.ErrOperationFailed for a failed or cancelled one. Non-terminal
// statuses return nil.
func (s Status) Err() error {
	if !s.Terminal() || s.Succeeded() {
		return nil
	}

	msg := s.ErrorMessage
	if msg == "" {
		msg = "finished in state " + s.State.String()
	}
	if s.Name == "" {
		return fmt.Errorf("%w: %s", domain.ErrOperationFailed, msg)
	}
	return fmt.Errorf("%s: %w: %s", s.Name, domain.ErrOperationFailed, msg)
}
