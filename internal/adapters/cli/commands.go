package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// list: print the catalog, optionally for one product.
func listCmd(services func() *Services) *cobra.Command {
	var product string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := services().Samples.List(product)
			if len(all) == 0 {
				if product != "" {
					return fmt.Errorf("no samples for product %q", product)
				}
				return errors.New("no samples registered")
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "PRODUCT\tSAMPLE\tSUMMARY")
			for _, s := range all {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Product, s.Name, s.Summary)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "only list samples of this product (storage, secretmanager, bigquery, pubsub, endpoints)")
	return cmd
}

// describe: print one sample's usage and parameters.
func describeCmd(services func() *Services) *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME",
		Short: "Show a sample's usage and parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := services().Samples.Describe(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s (%s)\n  %s\n\nUsage: samples run %s\n", s.Name, s.Product, s.Summary, s.Usage())
			if len(s.Params) == 0 {
				return nil
			}

			_, _ = fmt.Fprintln(out, "\nParameters:")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, p := range s.Params {
				usage := p.Usage
				if p.Optional {
					usage += fmt.Sprintf(" (optional, default %q)", p.Default)
				}
				_, _ = fmt.Fprintf(tw, "  %s\t%s\n", p.Name, usage)
			}
			return tw.Flush()
		},
	}
}

// run: execute one sample with positional arguments.
func runCmd(services func() *Services) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run NAME [ARGS...]",
		Short: "Run a sample",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return services().Samples.Run(cmd.Context(), args[0], args[1:], cmd.OutOrStdout())
		},
	}
	// Everything after NAME belongs to the sample, including values that
	// look like flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// batch: run the invocations of a YAML file concurrently.
func batchCmd(services func() *Services) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Run independent samples listed in a YAML file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invocations, err := LoadBatch(args[0])
			if err != nil {
				return err
			}

			results := services().Samples.RunBatch(cmd.Context(), invocations)
			failed := printResults(cmd.OutOrStdout(), results)
			if failed > 0 {
				return fmt.Errorf("%d of %d: %w", failed, len(results), errFailures)
			}
			return nil
		},
	}
}

// scenario: run an ordered scenario with cleanup.
func scenarioCmd(services func() *Services) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario FILE",
		Short: "Run an ordered multi-sample scenario with cleanup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report, err := services().Scenarios.RunScenario(cmd.Context(), sc, out)
			if report != nil {
				_, _ = fmt.Fprintf(out, "\nscenario %s: %d step(s) completed, %d cleanup(s) run\n",
					sc.Name, report.Completed, report.CleanedUp)
				if report.CleanupErr != nil {
					_, _ = fmt.Fprintf(out, "cleanup errors: %v\n", report.CleanupErr)
				}
			}
			return err
		},
	}
}

// printResults writes each result under a header and returns the number of
// failures.
func printResults(out io.Writer, results []ports.RunResult) int {
	failed := 0
	for _, r := range results {
		header := strings.TrimSpace(r.Invocation.Sample + " " + strings.Join(r.Invocation.Args, " "))
		_, _ = fmt.Fprintf(out, "== %s (%s) ==\n", header, r.Duration.Round(time.Millisecond))
		_, _ = io.WriteString(out, r.Output)
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "FAILED: %v\n", r.Err)
		}
	}
	return failed
}
