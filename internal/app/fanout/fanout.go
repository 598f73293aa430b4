// Package fanout runs a function over a slice of items with a bounded pool
// of workers. Results keep the input order, so callers can zip them back to
// their inputs. The batch runner uses it to execute sample invocations and
// the scenario runner to execute parallel step groups.
package fanout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of processing a single item.
// Either Value is populated (on success) or Err is non-nil (on failure).
type Result[R any] struct {
	Value R
	Err   error
}

// PanicError is recorded for an item whose fn panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("fanout: item panicked: %v", e.Value)
}

// Run executes fn for each item with at most min(maxWorkers, len(items))
// calls in flight. A maxWorkers below 1 is treated as 1.
//
// Items not yet picked up when ctx is done are recorded with ctx.Err() and fn
// is not called for them. Items already running finish normally; fn should
// watch ctx itself if it can stop early. A panic inside fn is recovered and
// recorded as a *PanicError for that item.
//
// Run blocks until every call has returned. An empty input returns an empty,
// non-nil slice.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	// fn errors are collected per item rather than returned to the group,
	// so one failure never cancels its siblings.
	var g errgroup.Group
	g.SetLimit(min(max(maxWorkers, 1), len(items)))

	for i, item := range items {
		if ctx.Err() != nil {
			results[i] = Result[R]{Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result[R]{Err: err}
				return nil
			}
			results[i] = call(ctx, item, fn)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func call[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (res Result[R]) {
	defer func() {
		if v := recover(); v != nil {
			res = Result[R]{Err: &PanicError{Value: v}}
		}
	}()

	val, err := fn(ctx, item)
	return Result[R]{Value: val, Err: err}
}
