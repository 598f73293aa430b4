// Package clients wires the Google Cloud adapters behind the lazy provider
// the sample catalog consumes. SDK clients are dialled on first use, so
// listing or describing samples never needs credentials.
package clients

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"google.golang.org/api/option"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients/bq"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients/endpoint"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients/gcs"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients/gsm"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients/messaging"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/clients/stt"
	"github.com/jsamuelsen11/gcp-samples/internal/app/samples"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/gcp"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/telemetry"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// UserAgent identifies this module to Google APIs.
const UserAgent = "gcp-samples/1.0"

var _ samples.Clients = (*Provider)(nil)

// Provider lazily builds and caches one client per service. Safe for
// concurrent use.
type Provider struct {
	cfg      *config.Config
	metrics  *telemetry.Metrics
	logger   *slog.Logger
	resolver gcp.ProjectResolver

	mu       sync.Mutex
	project  string
	breakers map[string]*gcp.Breaker
	storage  *gcs.Client
	secrets  *gsm.Client
	bigquery *bq.Client
	pubsub   *messaging.Client
	speech   *stt.Client
	endpoint *endpoint.Client
	closers  []io.Closer
}

// NewProvider creates a Provider. No network calls are made.
func NewProvider(cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) *Provider {
	p := &Provider{
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		breakers: make(map[string]*gcp.Breaker),
	}
	for _, name := range []string{gcs.ServiceName, gsm.ServiceName, bq.ServiceName, messaging.ServiceName, stt.ServiceName} {
		p.breakers[name] = gcp.NewBreaker(name, cfg.Client.CircuitBreaker, logger)
	}
	return p
}

// HealthCheckers returns the breakers of every SDK-backed service, ready to
// register with the health registry before any client exists.
func (p *Provider) HealthCheckers() []ports.HealthChecker {
	return []ports.HealthChecker{
		p.breakers[gcs.ServiceName],
		p.breakers[gsm.ServiceName],
		p.breakers[bq.ServiceName],
		p.breakers[messaging.ServiceName],
		p.breakers[stt.ServiceName],
	}
}

// ProjectID resolves and caches the project.
func (p *Provider) ProjectID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.projectLocked(ctx)
}

func (p *Provider) projectLocked(ctx context.Context) (string, error) {
	if p.project != "" {
		return p.project, nil
	}
	id, err := p.resolver.Resolve(ctx, p.cfg.GCP.ProjectID)
	if err != nil {
		return "", err
	}
	p.project = id
	p.logger.DebugContext(ctx, "project resolved", slog.String("project_id", id))
	return id, nil
}

// Storage returns the Cloud Storage client.
func (p *Provider) Storage(ctx context.Context) (ports.ObjectStorage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.storage == nil {
		c, err := gcs.New(ctx, p.breakers[gcs.ServiceName], p.logger, p.options()...)
		if err != nil {
			return nil, err
		}
		p.storage = c
		p.closers = append(p.closers, c)
	}
	return p.storage, nil
}

// SecretManager returns the Secret Manager client.
func (p *Provider) SecretManager(ctx context.Context) (ports.SecretManager, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.secrets == nil {
		c, err := gsm.New(ctx, p.breakers[gsm.ServiceName], p.logger, p.options()...)
		if err != nil {
			return nil, err
		}
		p.secrets = c
		p.closers = append(p.closers, c)
	}
	return p.secrets, nil
}

// BigQuery returns the BigQuery client billed to the resolved project.
func (p *Provider) BigQuery(ctx context.Context) (ports.BigQuery, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bigquery == nil {
		project, err := p.projectLocked(ctx)
		if err != nil {
			return nil, err
		}
		c, err := bq.New(ctx, project, p.breakers[bq.ServiceName], p.logger, p.options()...)
		if err != nil {
			return nil, err
		}
		p.bigquery = c
		p.closers = append(p.closers, c)
	}
	return p.bigquery, nil
}

// PubSub returns the Pub/Sub client of the resolved project.
func (p *Provider) PubSub(ctx context.Context) (ports.PubSub, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pubsub == nil {
		project, err := p.projectLocked(ctx)
		if err != nil {
			return nil, err
		}
		c, err := messaging.New(ctx, project, p.breakers[messaging.ServiceName], p.logger, p.options()...)
		if err != nil {
			return nil, err
		}
		p.pubsub = c
		p.closers = append(p.closers, c)
	}
	return p.pubsub, nil
}

// Speech returns the Speech-to-Text client.
func (p *Provider) Speech(ctx context.Context) (ports.Speech, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.speech == nil {
		c, err := stt.New(ctx, p.breakers[stt.ServiceName], p.logger, p.options()...)
		if err != nil {
			return nil, err
		}
		p.speech = c
		p.closers = append(p.closers, c)
	}
	return p.speech, nil
}

// Endpoints returns the HTTP endpoint invoker.
func (p *Provider) Endpoints(_ context.Context) (ports.EndpointInvoker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.endpoint == nil {
		p.endpoint = endpoint.New(&p.cfg.Client, p.metrics, p.logger, p.credentialOptions()...)
	}
	return p.endpoint, nil
}

// Close closes every client created so far.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	p.closers = nil
	return errors.Join(errs...)
}

func (p *Provider) options() []option.ClientOption {
	return gcp.ClientOptions(gcp.AuthOptions{
		Credentials: p.cfg.GCP.Credentials,
		Endpoint:    p.cfg.GCP.Endpoint,
		UserAgent:   UserAgent,
	})
}

// credentialOptions omits the endpoint override, which targets Google APIs
// and not the invoked services.
func (p *Provider) credentialOptions() []option.ClientOption {
	return gcp.ClientOptions(gcp.AuthOptions{Credentials: p.cfg.GCP.Credentials})
}
