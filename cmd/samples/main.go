// Package main is the samples CLI. It loads configuration for the selected
// profile, wires the sample catalog with samber/do v2 and runs one command.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/cli"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients"
	"github.com/jsamuelsen11/gcp-samples/internal/bootstrap"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/logging"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

const otelShutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	factory := func(ctx context.Context, opts cli.Options) (*cli.Services, error) {
		cfg, err := config.Load(opts.Profile, config.WithConfigDir(opts.ConfigDir))
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		// Sample output goes to stdout; logs stay on stderr.
		logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

		otel, err := bootstrap.InitTelemetry(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing telemetry: %w", err)
		}
		cleanup = append(cleanup, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
			defer cancel()
			if err := otel.Shutdown(shutdownCtx); err != nil {
				logger.Error("telemetry shutdown error", slog.Any("error", err))
			}
		})

		injector := do.New()
		do.ProvideValue(injector, cfg)
		do.ProvideValue(injector, logger)
		do.ProvideValue(injector, otel.Metrics)
		bootstrap.Register(injector)

		provider := do.MustInvoke[*clients.Provider](injector)
		cleanup = append(cleanup, func() {
			if err := provider.Close(); err != nil {
				logger.Warn("closing clients", slog.Any("error", err))
			}
		})

		samples, err := do.Invoke[ports.SampleService](injector)
		if err != nil {
			return nil, fmt.Errorf("resolving sample service: %w", err)
		}
		scenarios, err := do.Invoke[ports.ScenarioService](injector)
		if err != nil {
			return nil, fmt.Errorf("resolving scenario service: %w", err)
		}
		return &cli.Services{Samples: samples, Scenarios: scenarios}, nil
	}

	return cli.NewRootCommand(factory).ExecuteContext(ctx)
}
