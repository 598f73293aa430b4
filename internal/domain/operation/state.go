package operation

import "strings"

// State is the lifecycle state reported by a long-running operation. Managed
// APIs spell these differently (BigQuery jobs use PENDING/RUNNING/DONE, LRO
// APIs report a done flag plus an error); adapters map them onto this set.
type State string

const (
	StatePending   State = "PENDING"
	StateRunning   State = "RUNNING"
	StateDone      State = "DONE"
	StateSucceeded State = "SUCCEEDED"
	StateFailed    State = "FAILED"
	StateCancelled State = "CANCELLED"
)

// ParseState converts a service-reported state string to a State. Matching is
// case-insensitive. Unknown values map to StateRunning so that pollers keep
// waiting rather than treating an unfamiliar state as terminal.
func ParseState(s string) State {
	switch st := State(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatePending, StateRunning, StateDone, StateSucceeded, StateFailed, StateCancelled:
		return st
	case "CANCELED":
		return StateCancelled
	case "SUCCESS":
		return StateSucceeded
	case "":
		return StatePending
	default:
		return StateRunning
	}
}

// Terminal reports whether no further transitions are expected.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}
