package ports

import (
	"context"
	"io"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
)

// SampleService defines the service port for the sample catalog.
// Implemented by the application layer; called by the CLI and HTTP handlers.
type SampleService interface {
	// List returns registered samples sorted by product then name. An empty
	// product lists every sample.
	List(product string) []sample.Sample

	// Describe returns one sample's descriptor.
	// Returns domain.ErrNotFound for unknown names.
	Describe(name string) (sample.Sample, error)

	// Run binds args to the sample's parameters and executes it, writing
	// the sample's output to out.
	// Returns domain.ErrNotFound for unknown names and domain.ErrValidation
	// for bad arguments.
	Run(ctx context.Context, name string, args []string, out io.Writer) error

	// RunBatch executes independent invocations with bounded concurrency.
	// Results are returned in input order; each carries its own output and
	// error.
	RunBatch(ctx context.Context, invocations []Invocation) []RunResult
}

// Invocation names a sample and its positional arguments.
type Invocation struct {
	Sample string   `yaml:"sample" json:"sample"`
	Args   []string `yaml:"args" json:"args"`
}

// RunResult is the outcome of one invocation.
type RunResult struct {
	Invocation Invocation
	Output     string
	Err        error
	Duration   time.Duration
}

// ScenarioService runs ordered multi-sample scenarios with cleanup.
type ScenarioService interface {
	// RunScenario executes sc, streaming step output to out. On the first
	// failing step the cleanups of completed steps run in reverse order.
	RunScenario(ctx context.Context, sc Scenario, out io.Writer) (*ScenarioReport, error)
}

// Scenario is an ordered list of steps.
type Scenario struct {
	Name string `yaml:"name"`
	// AlwaysCleanup runs cleanups after success too, as test teardown does.
	AlwaysCleanup bool   `yaml:"always_cleanup"`
	Steps         []Step `yaml:"steps"`
}

// Step is either a single invocation or a parallel group, with an optional
// cleanup invocation that undoes it.
type Step struct {
	Invocation `yaml:",inline"`
	Parallel   []Invocation `yaml:"parallel"`
	Cleanup    *Invocation  `yaml:"cleanup"`
}

// ScenarioReport summarises a scenario run.
type ScenarioReport struct {
	Completed  int
	Failed     *RunResult
	CleanedUp  int
	CleanupErr error
}

// MessageService defines the service port for the Pub/Sub web app.
type MessageService interface {
	// Send publishes text to the configured topic and returns the message ID.
	// Returns domain.ErrValidation for empty text.
	Send(ctx context.Context, text string) (string, error)

	// Receive stores a message delivered to the push endpoint.
	Receive(ctx context.Context, msg message.Message) error

	// Fetch returns stored messages, newest first.
	Fetch(ctx context.Context) ([]message.Message, error)
}

// VoteService defines the service port for the Cloud SQL voting app.
type VoteService interface {
	// EnsureSchema prepares storage at startup.
	EnsureSchema(ctx context.Context) error

	// Cast records a vote for candidate.
	Cast(ctx context.Context, candidate vote.Candidate) error

	// Summary returns the tally and the most recent votes.
	Summary(ctx context.Context) (*vote.Summary, error)
}
