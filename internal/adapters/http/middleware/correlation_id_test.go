package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/middleware"
)

// captureCorrelationID runs a request with headers through RequestID and
// CorrelationID and returns the ID the handler saw plus the recorder.
func captureCorrelationID(t *testing.T, headers map[string]string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var gotID string
	handler := middleware.RequestID()(
		middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotID = middleware.CorrelationIDFromContext(r.Context())
		})),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pubsub/push", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(rec, req)
	return gotID, rec
}

func TestCorrelationID_Sources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "explicit header wins",
			headers: map[string]string{"X-Correlation-ID": "corr-abc", "X-Cloud-Trace-Context": "105445aa7843bc8bf206b12000100000/1;o=1"},
			want:    "corr-abc",
		},
		{
			name:    "cloud trace with span and options",
			headers: map[string]string{"X-Cloud-Trace-Context": "105445aa7843bc8bf206b12000100000/1;o=1"},
			want:    "105445aa7843bc8bf206b12000100000",
		},
		{
			name:    "cloud trace options only",
			headers: map[string]string{"X-Cloud-Trace-Context": "abc123;o=0"},
			want:    "abc123",
		},
		{
			name:    "bare cloud trace",
			headers: map[string]string{"X-Cloud-Trace-Context": "abc123"},
			want:    "abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, rec := captureCorrelationID(t, tt.headers)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, rec.Header().Get("X-Correlation-ID"))
		})
	}
}

func TestCorrelationID_DefaultsToRequestID(t *testing.T) {
	t.Parallel()

	got, rec := captureCorrelationID(t, map[string]string{"X-Cloud-Trace-Context": "/;o=1"})

	reqID := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, reqID)
	assert.Equal(t, reqID, got)
}

func TestCorrelationIDFromContext_NotFound(t *testing.T) {
	t.Parallel()

	assert.Empty(t, middleware.CorrelationIDFromContext(context.Background()))
}

func TestWithCorrelationID_StoresInContext(t *testing.T) {
	t.Parallel()

	ctx := middleware.WithCorrelationID(context.Background(), "test-corr")

	assert.Equal(t, "test-corr", middleware.CorrelationIDFromContext(ctx))
}
