package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/gcp-samples/internal/app/fanout"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/logging"
)

// ErrAlreadyCommitted is returned when Add or Commit is called on a queue
// that has already been committed.
var ErrAlreadyCommitted = errors.New("scenario: queue already committed")

// ErrNilAction is returned when a nil Action is staged.
var ErrNilAction = errors.New("scenario: nil action")

// Queue stages actions and runs them in order with rollback. Safe for
// concurrent staging; Commit runs once.
type Queue struct {
	mu        sync.Mutex
	items     []domain.Action
	completed int
	committed bool
}

// Add stages a single action.
func (q *Queue) Add(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.committed {
		return ErrAlreadyCommitted
	}
	q.items = append(q.items, action)
	return nil
}

// AddGroup stages actions that run concurrently when their turn arrives.
// The group counts as one step and is undone by undo, which may be nil.
func (q *Queue) AddGroup(undo func(context.Context) error, actions ...domain.Action) error {
	for _, a := range actions {
		if a == nil {
			return ErrNilAction
		}
	}
	return q.Add(&group{actions: actions, undo: undo})
}

// Len returns the number of staged steps.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Commit executes staged steps in insertion order. On the first failure the
// steps completed so far are rolled back in reverse order, and the returned
// error names the failing step. A failed group in which some actions
// succeeded is rolled back too, before the earlier steps.
func (q *Queue) Commit(ctx context.Context) (RollbackResult, error) {
	q.mu.Lock()
	if q.committed {
		q.mu.Unlock()
		return RollbackResult{}, ErrAlreadyCommitted
	}
	q.committed = true
	// Once committed, nothing can append to q.items.
	items := q.items
	q.mu.Unlock()

	logger := logging.FromContext(ctx)

	for i, item := range items {
		logger.InfoContext(ctx, "executing step",
			slog.String("operation", "Queue.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(items)),
			slog.String("action", item.Description()),
		)

		if err := item.Execute(ctx); err != nil {
			logger.ErrorContext(ctx, "step failed, rolling back",
				slog.String("operation", "Queue.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", item.Description()),
				slog.Any("error", err),
			)
			q.setCompleted(i)
			undo := items[:i]
			if g, ok := item.(*group); ok && g.succeeded > 0 {
				undo = items[:i+1]
			}
			rb := rollback(context.WithoutCancel(ctx), undo, logger)
			return rb, fmt.Errorf("step %d (%s): %w", i+1, item.Description(), err)
		}
	}

	q.setCompleted(len(items))
	return RollbackResult{}, nil
}

// Completed returns how many steps finished successfully during Commit.
func (q *Queue) Completed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.completed
}

// Rollback undoes every step that Commit completed, in reverse order. It is
// used after a successful Commit when the caller wants teardown anyway.
func (q *Queue) Rollback(ctx context.Context) RollbackResult {
	q.mu.Lock()
	items := q.items[:q.completed]
	q.mu.Unlock()

	return rollback(ctx, items, logging.FromContext(ctx))
}

func (q *Queue) setCompleted(n int) {
	q.mu.Lock()
	q.completed = n
	q.mu.Unlock()
}

// RollbackResult reports what a rollback did. Err joins every rollback
// failure; a failing rollback never stops the remaining ones.
type RollbackResult struct {
	RolledBack int
	Err        error
}

func rollback(ctx context.Context, items []domain.Action, logger *slog.Logger) RollbackResult {
	var res RollbackResult
	var errs []error

	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]

		logger.InfoContext(ctx, "rolling back step",
			slog.String("operation", "Queue.Rollback"),
			slog.Int("step", i+1),
			slog.String("action", item.Description()),
		)

		if err := item.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("operation", "Queue.Rollback"),
				slog.Int("step", i+1),
				slog.String("action", item.Description()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("rolling back %s: %w", item.Description(), err))
			continue
		}
		res.RolledBack++
	}

	res.Err = errors.Join(errs...)
	return res
}

// group runs its actions concurrently. The first failure cancels the
// others. succeeded counts the actions that finished without error, so a
// partly applied group still gets its undo.
type group struct {
	actions   []domain.Action
	undo      func(context.Context) error
	succeeded int
}

func (g *group) Execute(ctx context.Context) error {
	if len(g.actions) == 0 {
		return nil
	}

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := fanout.Run(groupCtx, len(g.actions), g.actions, func(ctx context.Context, a domain.Action) (struct{}, error) {
		err := a.Execute(ctx)
		if err != nil {
			cancel()
		}
		return struct{}{}, err
	})

	// Report the first real failure rather than a sibling's cancellation.
	var firstErr error
	g.succeeded = 0
	for _, r := range results {
		switch {
		case r.Err == nil:
			g.succeeded++
		case firstErr == nil, errors.Is(firstErr, context.Canceled) && !errors.Is(r.Err, context.Canceled):
			firstErr = r.Err
		}
	}
	return firstErr
}

func (g *group) Rollback(ctx context.Context) error {
	if g.undo == nil {
		return nil
	}
	return g.undo(ctx)
}

func (g *group) Description() string {
	switch len(g.actions) {
	case 0:
		return "empty group"
	case 1:
		return g.actions[0].Description()
	default:
		return fmt.Sprintf("parallel group (%d actions: %s, ...)", len(g.actions), g.actions[0].Description())
	}
}
