// Package endpoint implements ports.EndpointInvoker on the instrumented HTTP
// client. Calls with an audience carry a Google-signed ID token, which is
// what Cloud Run, Cloud Functions and IAP expect.
package endpoint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/httpclient"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/logging"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/telemetry"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// ServiceName names the client in traces, metrics and health checks.
const ServiceName = "endpoint"

// maxBody caps how much of a response body is kept.
const maxBody = 10 << 20

// maxAudiences bounds how many ID-token clients are cached. The least
// recently used audience is evicted first.
const maxAudiences = 16

var (
	_ ports.EndpointInvoker = (*Client)(nil)
	_ ports.HealthChecker   = (*Client)(nil)
)

// TokenSourceFunc returns an ID token source for an audience.
type TokenSourceFunc func(ctx context.Context, audience string) (oauth2.TokenSource, error)

// Client implements ports.EndpointInvoker. Authenticated clients are built
// lazily, one per audience, and kept in a bounded LRU cache.
type Client struct {
	cfg         *config.ClientConfig
	metrics     *telemetry.Metrics
	logger      *slog.Logger
	plain       *httpclient.Client
	tokenSource TokenSourceFunc

	mu     sync.Mutex
	authed *lru.Cache[string, *httpclient.Client]
}

// New creates a Client. opts configure ID token minting, for example
// explicit service account credentials.
func New(cfg *config.ClientConfig, metrics *telemetry.Metrics, logger *slog.Logger, opts ...option.ClientOption) *Client {
	return NewWithTokenSource(cfg, metrics, logger, func(ctx context.Context, audience string) (oauth2.TokenSource, error) {
		return idtoken.NewTokenSource(ctx, audience, opts...)
	})
}

// NewWithTokenSource creates a Client minting ID tokens from ts.
func NewWithTokenSource(cfg *config.ClientConfig, metrics *telemetry.Metrics, logger *slog.Logger, ts TokenSourceFunc) *Client {
	// lru.New only fails for a non-positive size.
	authed, _ := lru.New[string, *httpclient.Client](maxAudiences)
	return &Client{
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
		plain:       httpclient.New(cfg, ServiceName, metrics, logger),
		tokenSource: ts,
		authed:      authed,
	}
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string { return ServiceName }

// HealthCheck reports the unauthenticated client's breaker state.
func (c *Client) HealthCheck(ctx context.Context) error { return c.plain.HealthCheck(ctx) }

// Invoke sends req and returns the status and body. Non-2xx statuses are
// returned as responses, not errors.
func (c *Client) Invoke(ctx context.Context, req ports.EndpointRequest) (*ports.EndpointResponse, error) {
	client := c.plain
	if req.Audience != "" {
		var err error
		if client, err = c.authenticated(ctx, req.Audience); err != nil {
			return nil, err
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w",
			logging.RedactRawURL(req.URL), logging.RedactURLError(err))
	}
	target := logging.RedactURL(httpReq.URL)
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := client.Do(ctx, httpReq)
	if resp == nil {
		return nil, fmt.Errorf("calling %s: %w", target, logging.RedactURLError(err))
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if readErr != nil {
		return nil, fmt.Errorf("reading response from %s: %w", target, readErr)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "endpoint call exhausted retries",
			slog.String("url", target),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		)
	}
	return &ports.EndpointResponse{StatusCode: resp.StatusCode, Body: data}, nil
}

func (c *Client) authenticated(ctx context.Context, audience string) (*httpclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hc, ok := c.authed.Get(audience); ok {
		return hc, nil
	}
	ts, err := c.tokenSource(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("creating id token source for %s: %w", logging.RedactRawURL(audience), err)
	}
	hc := httpclient.New(c.cfg, ServiceName, c.metrics, c.logger, httpclient.WithTransport(&oauth2.Transport{
		Source: oauth2.ReuseTokenSource(nil, ts),
		Base:   http.DefaultTransport,
	}))
	c.authed.Add(audience, hc)
	return hc, nil
}
