package httpclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/httpclient"
)

func testConfig() *config.ClientConfig {
	return &config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       1 * time.Second,
			HalfOpenLimit: 1,
		},
	}
}

// singleShot returns a config with retries off and a breaker that opens on
// the first failure.
func singleShot() *config.ClientConfig {
	cfg := testConfig()
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.CircuitBreaker.Timeout = 100 * time.Millisecond
	cfg.Retry.MaxAttempts = 1
	return cfg
}

func newClient(cfg *config.ClientConfig, opts ...httpclient.Option) *httpclient.Client {
	return httpclient.New(cfg, "endpoint", nil, slog.New(slog.DiscardHandler), opts...)
}

// call issues a request against url and returns the response with its body
// read and closed. resp is nil when Do returned no response.
func call(ctx context.Context, t *testing.T, c *httpclient.Client, method, url, body string) (*http.Response, string, error) {
	t.Helper()

	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	require.NoError(t, err)

	resp, err := c.Do(ctx, req)
	if resp == nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()
	b, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	return resp, string(b), err
}

// failing serves 500 to every request and counts them.
func failing(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		count.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv, &count
}

func TestDo_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello World!"))
	}))
	t.Cleanup(srv.Close)

	resp, body, err := call(context.Background(), t, newClient(testConfig()), http.MethodGet, srv.URL+"/", "")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello World!", body)
}

func TestDo_RetryPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		failCount    int32
		wantAttempts int32
		wantStatus   int
		wantErr      bool
	}{
		{"5xx retries until success", http.StatusInternalServerError, 2, 3, http.StatusOK, false},
		{"429 retries until success", http.StatusTooManyRequests, 1, 2, http.StatusOK, false},
		{"4xx is not retried", http.StatusForbidden, 10, 1, http.StatusForbidden, false},
		{"exhausted retries return last response", http.StatusServiceUnavailable, 10, 3, http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var count atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if count.Add(1) <= tt.failCount {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("attempt failed"))
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			t.Cleanup(srv.Close)

			resp, body, err := call(context.Background(), t, newClient(testConfig()), http.MethodGet, srv.URL, "")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "attempt failed", body, "last response body should stay readable")
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantAttempts, count.Load())
		})
	}
}

func TestDo_RequestBodyPreservedAcrossRetries(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		n := len(bodies)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	_, _, err := call(context.Background(), t, newClient(testConfig()), http.MethodPost, srv.URL, `{"name":"world"}`)

	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`{"name":"world"}`, `{"name":"world"}`}, bodies)
}

func TestDo_PropagatesRequestMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ctx      func() context.Context
		wantReq  string
		wantCorr string
	}{
		{
			name: "ids in context",
			ctx: func() context.Context {
				ctx := httpclient.WithRequestID(context.Background(), "req-123")
				return httpclient.WithCorrelationID(ctx, "corr-456")
			},
			wantReq:  "req-123",
			wantCorr: "corr-456",
		},
		{
			name:     "bare context",
			ctx:      context.Background,
			wantReq:  "",
			wantCorr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotReq, gotCorr atomic.Value
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotReq.Store(r.Header.Get("X-Request-ID"))
				gotCorr.Store(r.Header.Get("X-Correlation-ID"))
				w.WriteHeader(http.StatusOK)
			}))
			t.Cleanup(srv.Close)

			_, _, err := call(tt.ctx(), t, newClient(testConfig()), http.MethodGet, srv.URL, "")

			require.NoError(t, err)
			assert.Equal(t, tt.wantReq, gotReq.Load())
			assert.Equal(t, tt.wantCorr, gotCorr.Load())
		})
	}
}

func TestDo_CircuitBreaker(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		count.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := newClient(singleShot())
	ctx := context.Background()

	// The first failure opens the breaker.
	_, _, _ = call(ctx, t, client, http.MethodGet, srv.URL, "")
	require.Equal(t, int32(1), count.Load())

	resp, _, err := call(ctx, t, client, http.MethodGet, srv.URL, "")
	assert.Nil(t, resp)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(1), count.Load(), "open breaker must not reach the service")

	// After the breaker timeout a half-open probe closes it again.
	time.Sleep(150 * time.Millisecond)
	healthy.Store(true)

	resp, _, err = call(ctx, t, client, http.MethodGet, srv.URL, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, client.HealthCheck(ctx))
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv, _ := failing(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := call(ctx, t, newClient(testConfig()), http.MethodGet, srv.URL, "")

	assert.Error(t, err)
}

func TestClient_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "endpoint", newClient(testConfig()).Name())
}

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		trip    bool
		wait    time.Duration
		wantErr string
	}{
		{name: "closed breaker is healthy"},
		{name: "open breaker is failing", trip: true, wantErr: "failing"},
		{name: "half-open breaker is degraded", trip: true, wait: 150 * time.Millisecond, wantErr: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newClient(singleShot())
			if tt.trip {
				srv, _ := failing(t)
				_, _, _ = call(context.Background(), t, client, http.MethodGet, srv.URL, "")
			}
			time.Sleep(tt.wait)

			err := client.HealthCheck(context.Background())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDo_NilMetrics(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	resp, _, err := call(context.Background(), t, newClient(testConfig()), http.MethodGet, srv.URL, "")

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// tokenTransport stands in for the oauth2 transport idtoken builds.
type tokenTransport struct {
	base  http.RoundTripper
	token string
}

func (tt *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+tt.token)
	return tt.base.RoundTrip(req)
}

func TestDo_WithTransport(t *testing.T) {
	t.Parallel()

	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := newClient(testConfig(), httpclient.WithTransport(&tokenTransport{base: http.DefaultTransport, token: "id-token"}))

	_, _, err := call(context.Background(), t, client, http.MethodGet, srv.URL, "")

	require.NoError(t, err)
	assert.Equal(t, "Bearer id-token", gotAuth.Load())
}

func TestDo_RateLimitRespectsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	client := newClient(cfg)

	// The first request takes the only token.
	_, _, err := call(context.Background(), t, client, http.MethodGet, srv.URL, "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp, _, err := call(ctx, t, client, http.MethodGet, srv.URL, "")
	assert.Nil(t, resp)
	assert.Error(t, err)
}
