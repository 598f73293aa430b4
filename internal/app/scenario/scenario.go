// Package scenario runs ordered multi-sample scenarios such as "create a
// bucket, upload an object, list it" with cleanup steps that undo them.
//
// Steps are staged on a Queue and committed in order:
//
//	q := &scenario.Queue{}
//	q.Add(step)                       // single invocation
//	q.AddGroup(undo, a, b)            // parallel invocations
//	rb, err := q.Commit(ctx)          // rolls back completed steps on failure
//
// Runner builds the queue from a ports.Scenario and expands placeholders
// ({{uuid}}, {{project}}, {{bucket}}) in every argument first.
package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/logging"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// Placeholders expanded in sample names and arguments.
const (
	PlaceholderUUID    = "{{uuid}}"
	PlaceholderProject = "{{project}}"
	PlaceholderBucket  = "{{bucket}}"
)

// Compile-time check that Runner implements ports.ScenarioService.
var _ ports.ScenarioService = (*Runner)(nil)

// Vars supplies placeholder values. Project is resolved only when a
// scenario uses {{project}}.
type Vars struct {
	Project func(ctx context.Context) (string, error)
	Bucket  string
}

// Runner implements ports.ScenarioService on top of a SampleService.
type Runner struct {
	samples ports.SampleService
	vars    Vars
	newID   func() string
	logger  *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(samples ports.SampleService, vars Vars, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		samples: samples,
		vars:    vars,
		newID:   uuid.NewString,
		logger:  logger,
	}
}

// RunScenario validates sc, expands placeholders and runs its steps. Step
// output is streamed to out as each invocation finishes. On failure the
// report carries the failing invocation and the error names the step.
func (r *Runner) RunScenario(ctx context.Context, sc ports.Scenario, out io.Writer) (*ports.ScenarioReport, error) {
	if err := Validate(sc); err != nil {
		return nil, err
	}

	expand, err := r.expander(ctx, sc)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithLogger(ctx, r.logger.With(slog.String("scenario", sc.Name)))
	r.logger.InfoContext(ctx, "running scenario",
		slog.String("scenario", sc.Name),
		slog.Int("steps", len(sc.Steps)),
	)

	run := &execution{samples: r.samples, out: &syncWriter{w: out}}
	q := &Queue{}
	for _, st := range sc.Steps {
		if err := run.stage(q, st, expand); err != nil {
			return nil, err
		}
	}

	rb, err := q.Commit(ctx)
	report := &ports.ScenarioReport{Completed: q.Completed()}

	if err == nil && sc.AlwaysCleanup {
		rb = q.Rollback(context.WithoutCancel(ctx))
	}
	report.CleanedUp = int(run.cleanups.Load())
	report.CleanupErr = rb.Err

	if err != nil {
		report.Failed = run.failure()
		r.logger.ErrorContext(ctx, "scenario failed",
			slog.String("operation", "RunScenario"),
			slog.Int("completed", report.Completed),
			slog.Int("cleaned_up", report.CleanedUp),
			slog.Any("error", err),
		)
		return report, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	r.logger.InfoContext(ctx, "scenario completed",
		slog.Int("completed", report.Completed),
		slog.Int("cleaned_up", report.CleanedUp),
	)
	return report, nil
}

// Validate checks that every step names exactly one of a sample or a
// parallel group and that every invocation names a sample.
func Validate(sc ports.Scenario) error {
	fields := make(map[string]string)

	if len(sc.Steps) == 0 {
		fields["steps"] = domain.MsgRequired
	}
	for i, st := range sc.Steps {
		key := fmt.Sprintf("steps[%d]", i)
		switch {
		case st.Sample == "" && len(st.Parallel) == 0:
			fields[key] = "needs a sample or a parallel group"
		case st.Sample != "" && len(st.Parallel) > 0:
			fields[key] = "cannot have both a sample and a parallel group"
		}
		for j, inv := range st.Parallel {
			if inv.Sample == "" {
				fields[fmt.Sprintf("%s.parallel[%d].sample", key, j)] = domain.MsgRequired
			}
		}
		if st.Cleanup != nil && st.Cleanup.Sample == "" {
			fields[key+".cleanup.sample"] = domain.MsgRequired
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// expander builds the placeholder replacer for one run. A single UUID is
// shared by every step so later steps can refer to resources created by
// earlier ones.
func (r *Runner) expander(ctx context.Context, sc ports.Scenario) (func(ports.Invocation) ports.Invocation, error) {
	pairs := []string{PlaceholderUUID, r.newID()}

	if uses(sc, PlaceholderBucket) {
		if r.vars.Bucket == "" {
			return nil, domain.NewValidationError("gcp.bucket", "is required by "+PlaceholderBucket)
		}
		pairs = append(pairs, PlaceholderBucket, r.vars.Bucket)
	}

	if uses(sc, PlaceholderProject) {
		if r.vars.Project == nil {
			return nil, domain.NewValidationError("gcp.project_id", "is required by "+PlaceholderProject)
		}
		project, err := r.vars.Project(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", PlaceholderProject, err)
		}
		pairs = append(pairs, PlaceholderProject, project)
	}

	rep := strings.NewReplacer(pairs...)
	return func(inv ports.Invocation) ports.Invocation {
		args := make([]string, len(inv.Args))
		for i, a := range inv.Args {
			args[i] = rep.Replace(a)
		}
		return ports.Invocation{Sample: rep.Replace(inv.Sample), Args: args}
	}, nil
}

func uses(sc ports.Scenario, placeholder string) bool {
	has := func(inv ports.Invocation) bool {
		if strings.Contains(inv.Sample, placeholder) {
			return true
		}
		for _, a := range inv.Args {
			if strings.Contains(a, placeholder) {
				return true
			}
		}
		return false
	}
	for _, st := range sc.Steps {
		if has(st.Invocation) || (st.Cleanup != nil && has(*st.Cleanup)) {
			return true
		}
		for _, p := range st.Parallel {
			if has(p) {
				return true
			}
		}
	}
	return false
}

// execution holds the state of one scenario run.
type execution struct {
	samples  ports.SampleService
	out      *syncWriter
	cleanups atomic.Int32

	mu     sync.Mutex
	failed *ports.RunResult
}

func (e *execution) stage(q *Queue, st ports.Step, expand func(ports.Invocation) ports.Invocation) error {
	var cleanup *ports.Invocation
	if st.Cleanup != nil {
		c := expand(*st.Cleanup)
		cleanup = &c
	}

	if len(st.Parallel) == 0 {
		return q.Add(&invocationAction{exec: e, inv: expand(st.Invocation), cleanup: cleanup})
	}

	actions := make([]domain.Action, len(st.Parallel))
	for i, p := range st.Parallel {
		actions[i] = &invocationAction{exec: e, inv: expand(p)}
	}
	var undo func(context.Context) error
	if cleanup != nil {
		undo = func(ctx context.Context) error { return e.cleanup(ctx, *cleanup) }
	}
	return q.AddGroup(undo, actions...)
}

// invoke runs inv, streams its output and returns the result.
func (e *execution) invoke(ctx context.Context, prefix string, inv ports.Invocation) ports.RunResult {
	var buf bytes.Buffer
	start := time.Now()
	err := e.samples.Run(ctx, inv.Sample, inv.Args, &buf)
	res := ports.RunResult{Invocation: inv, Output: buf.String(), Err: err, Duration: time.Since(start)}

	e.out.write(prefix, describe(inv), res)
	return res
}

func (e *execution) cleanup(ctx context.Context, inv ports.Invocation) error {
	res := e.invoke(ctx, "<==", inv)
	if res.Err != nil {
		return res.Err
	}
	e.cleanups.Add(1)
	return nil
}

// recordFailure keeps the first real failure. Siblings cancelled by it in a
// parallel group do not replace it.
func (e *execution) recordFailure(res ports.RunResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failed == nil || (errors.Is(e.failed.Err, context.Canceled) && !errors.Is(res.Err, context.Canceled)) {
		e.failed = &res
	}
}

func (e *execution) failure() *ports.RunResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failed
}

// invocationAction adapts one invocation to domain.Action.
type invocationAction struct {
	exec    *execution
	inv     ports.Invocation
	cleanup *ports.Invocation
}

func (a *invocationAction) Execute(ctx context.Context) error {
	res := a.exec.invoke(ctx, "==>", a.inv)
	if res.Err != nil {
		a.exec.recordFailure(res)
	}
	return res.Err
}

func (a *invocationAction) Rollback(ctx context.Context) error {
	if a.cleanup == nil {
		return nil
	}
	return a.exec.cleanup(ctx, *a.cleanup)
}

func (a *invocationAction) Description() string {
	return describe(a.inv)
}

func describe(inv ports.Invocation) string {
	if len(inv.Args) == 0 {
		return inv.Sample
	}
	return inv.Sample + " " + strings.Join(inv.Args, " ")
}

// syncWriter serialises output from parallel invocations so each one's
// block stays contiguous.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) write(prefix, desc string, res ports.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.w, "%s %s\n", prefix, desc)
	_, _ = io.WriteString(s.w, res.Output)
	if res.Err != nil {
		_, _ = fmt.Fprintf(s.w, "error: %v\n", res.Err)
	}
}
