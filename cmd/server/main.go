// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/gcp-samples/internal/adapters/http"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients"
	"github.com/jsamuelsen11/gcp-samples/internal/bootstrap"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/logging"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/telemetry"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
	startupTimeout        = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := bootstrap.InitTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// Stores connect eagerly so a bad database config fails startup.
	startCtx, startCancel := context.WithTimeout(ctx, startupTimeout)
	defer startCancel()

	stores, err := bootstrap.OpenStores(startCtx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening stores: %w", err)
	}
	defer stores.Close()

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)
	do.ProvideValue(injector, stores)

	bootstrap.Register(injector)
	bootstrap.RegisterWebApps(injector)
	registerHTTP(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	provider := do.MustInvoke[*clients.Provider](injector)
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Warn("closing clients", slog.Any("error", err))
		}
	}()

	// Register the database checker after the graph is wired; the SDK
	// breakers are registered by bootstrap.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(stores.Health)

	votes := do.MustInvoke[ports.VoteService](injector)
	if err := votes.EnsureSchema(startCtx); err != nil {
		return fmt.Errorf("preparing votes schema: %w", err)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

func registerHTTP(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*handlers.SampleHandler, error) {
		svc := do.MustInvoke[ports.SampleService](i)
		var opts []handlers.SampleHandlerOption
		if !cfg.Server.SampleRuns {
			opts = append(opts, handlers.WithoutRuns())
		}
		return handlers.NewSampleHandler(svc, logger, opts...), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.PubSubHandler, error) {
		svc := do.MustInvoke[ports.MessageService](i)
		return handlers.NewPubSubHandler(svc, cfg.PubSub.VerificationToken, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.VoteHandler, error) {
		svc := do.MustInvoke[ports.VoteService](i)
		return handlers.NewVoteHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		stores := do.MustInvoke[*bootstrap.Stores](i)
		// Only the database gates readiness; Google API breakers degrade.
		return handlers.NewHealthHandler(registry, stores.Health.Name()), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		// Sample runs may poll long-running jobs for up to poll.timeout.
		sampleRuns := middleware.PathTimeout{
			Prefix:  "/api/v1/samples/",
			Timeout: cfg.Poll.Timeout + cfg.Server.WriteTimeout,
		}

		return adapthttp.NewRouter(
			do.MustInvoke[*handlers.SampleHandler](i),
			do.MustInvoke[*handlers.PubSubHandler](i),
			do.MustInvoke[*handlers.VoteHandler](i),
			do.MustInvoke[*handlers.HealthHandler](i),
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout, sampleRuns),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
