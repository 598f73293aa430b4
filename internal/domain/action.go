package domain

import "context"

// Action is a single executable step that can be undone.
//
// Action lives in the domain layer so orchestration code can stage steps
// without depending on the application layer.
type Action interface {
	// Execute performs the action. The context carries cancellation and
	// deadline signals that the implementation should respect.
	Execute(ctx context.Context) error

	// Rollback reverses the effect of a previously successful Execute call.
	// Rollback is only called if Execute returned nil. The context may
	// differ from the one passed to Execute.
	Rollback(ctx context.Context) error

	// Description returns a human-readable description for logging, such
	// as "create_bucket my-bucket".
	Description() string
}
