package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/gcp-samples/internal/platform/httpclient"
)

const (
	headerCorrelationID = "X-Correlation-ID"
	// headerCloudTrace is set by Google Front End on requests reaching
	// Cloud Run and App Engine: TRACE_ID/SPAN_ID;o=OPTIONS.
	headerCloudTrace = "X-Cloud-Trace-Context"
)

// correlationIDKey is the context key for storing correlation IDs.
type correlationIDKey struct{}

// WithCorrelationID returns a new context with the given correlation ID stored
// in it. It also stores the ID via httpclient.WithCorrelationID so that
// outbound HTTP calls automatically include the X-Correlation-ID header.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, correlationIDKey{}, id)
	ctx = httpclient.WithCorrelationID(ctx, id)
	return ctx
}

// CorrelationIDFromContext extracts the correlation ID from the context.
// Returns an empty string if no correlation ID is stored.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// CorrelationID returns middleware that resolves a correlation ID for each
// request, in order of preference:
//
//  1. the caller's X-Correlation-ID header,
//  2. the trace ID from X-Cloud-Trace-Context, so log lines line up with the
//     request log Google writes for the same call,
//  3. the request ID from context.
//
// The ID is stored in the request context and echoed as a response header.
// This middleware must run after RequestID so that the last fallback is set.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerCorrelationID)
			if id == "" {
				id = cloudTraceID(r.Header.Get(headerCloudTrace))
			}
			if id == "" {
				id = RequestIDFromContext(r.Context())
			}
			ctx := WithCorrelationID(r.Context(), id)
			w.Header().Set(headerCorrelationID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// cloudTraceID returns the trace component of an X-Cloud-Trace-Context value.
func cloudTraceID(v string) string {
	if i := strings.IndexAny(v, "/;"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
