// Package bootstrap wires the object graph shared by the samples CLI and the
// HTTP server. Both binaries register the same providers on a samber/do
// injector and resolve what they need from it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/store/memory"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/gcp-samples/internal/app"
	"github.com/jsamuelsen11/gcp-samples/internal/app/samples"
	"github.com/jsamuelsen11/gcp-samples/internal/app/scenario"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/health"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/poll"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/telemetry"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// Database drivers accepted in database.driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Telemetry bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type Telemetry struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	Metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// InitTelemetry starts the tracer and meter providers when enabled.
func InitTelemetry(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	if !cfg.Telemetry.Enabled {
		return &Telemetry{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &Telemetry{
		tracer:  tp,
		meter:   mp,
		Metrics: metrics,
	}, nil
}

// Stores holds the persistence backends selected by database.driver.
type Stores struct {
	Votes    ports.VoteStore
	Messages ports.MessageStore
	// Health reports database reachability.
	Health ports.HealthChecker
	close  func()
}

// Close releases the connection pool, if any.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores opens the configured backend. The postgres driver connects
// immediately, so a bad DSN fails startup rather than the first request.
func OpenStores(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Stores, error) {
	switch cfg.Driver {
	case DriverPostgres:
		db, err := postgres.Open(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return &Stores{
			Votes:    db.Votes(),
			Messages: db.Messages(),
			Health:   db,
			close:    db.Close,
		}, nil
	case DriverMemory, "":
		votes := memory.NewVoteStore()
		return &Stores{
			Votes:    votes,
			Messages: memory.NewMessageStore(0),
			Health:   votes,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Register provides the shared services on injector. Config, logger and
// metrics must already be provided as values. Nothing is dialled until a
// service is invoked, and SDK clients only on a sample's first use.
func Register(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*clients.Provider, error) {
		cfg := do.MustInvoke[*config.Config](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return clients.NewProvider(cfg, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*poll.Poller, error) {
		cfg := do.MustInvoke[*config.Config](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return poll.New(cfg.Poll, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*samples.Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return samples.Catalog(samples.Deps{
			Clients:  do.MustInvoke[*clients.Provider](i),
			Poller:   do.MustInvoke[*poll.Poller](i),
			Location: cfg.GCP.Location,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.SampleService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		registry := do.MustInvoke[*samples.Registry](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return app.NewSampleService(registry, cfg.Batch.Workers, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ScenarioService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		provider := do.MustInvoke[*clients.Provider](i)
		svc := do.MustInvoke[ports.SampleService](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return scenario.NewRunner(svc, scenario.Vars{
			Project: provider.ProjectID,
			Bucket:  cfg.GCP.Bucket,
		}, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		registry := health.New(health.WithCheckTimeout(cfg.Server.HealthCheckTimeout))
		for _, checker := range do.MustInvoke[*clients.Provider](i).HealthCheckers() {
			registry.Register(checker)
		}
		return registry, nil
	})
}

// RegisterWebApps provides the Pub/Sub and voting services on top of the
// stores, which must already be provided as a value.
func RegisterWebApps(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (ports.MessageService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		provider := do.MustInvoke[*clients.Provider](i)
		stores := do.MustInvoke[*Stores](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return app.NewMessageService(lazyPubSub{provider}, stores.Messages, cfg.PubSub.Topic, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.VoteService, error) {
		stores := do.MustInvoke[*Stores](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return app.NewVoteService(stores.Votes, logger), nil
	})
}
