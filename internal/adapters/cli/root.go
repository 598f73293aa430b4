// Package cli is the command-line front end of the sample catalog. Commands
// delegate to the same services the HTTP adapter uses.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// Services are what the commands run against.
type Services struct {
	Samples   ports.SampleService
	Scenarios ports.ScenarioService
}

// Options are the global flags, passed to the Factory.
type Options struct {
	Profile   string
	ConfigDir string
}

// Factory builds Services for the selected profile. It runs once, before
// the command; releasing what it built is the caller's job.
type Factory func(ctx context.Context, opts Options) (*Services, error)

// NewRootCommand creates the "samples" command tree.
func NewRootCommand(factory Factory) *cobra.Command {
	opts := Options{Profile: os.Getenv("APP_PROFILE")}
	if opts.Profile == "" {
		opts.Profile = "local"
	}

	var svc *Services

	root := &cobra.Command{
		Use:   "samples",
		Short: "Run Google Cloud client samples",
		Long: "samples runs small, self-contained Google Cloud client samples for\n" +
			"Cloud Storage, Secret Manager, BigQuery, Pub/Sub and Cloud Endpoints.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := factory(cmd.Context(), opts)
			if err != nil {
				return err
			}
			svc = s
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.Profile, "profile", opts.Profile, "configuration profile (default $APP_PROFILE or local)")
	root.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "configs", "directory holding base.yaml and profile files")

	services := func() *Services { return svc }
	root.AddCommand(
		listCmd(services),
		describeCmd(services),
		runCmd(services),
		batchCmd(services),
		scenarioCmd(services),
	)
	return root
}

// errFailures signals that a batch or scenario completed with failures that
// were already reported.
var errFailures = errors.New("one or more invocations failed")
