package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/dto"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/logging"
)

// errInternalServer is what clients see for a recovered panic. The panic
// value and stack stay in the logs.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that turns a panic in a downstream handler into
// an RFC 9457 500 response and an error log carrying the stack, the route,
// and the redacted URL. Nothing is written when the handler had already
// started its response.
//
// http.ErrAbortHandler is re-raised so net/http can drop the connection
// quietly, which is how a handler abandons a half-sent response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				attrs := []any{
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("url", logging.RedactURL(r.URL)),
				}
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					attrs = append(attrs, slog.String("route", rctx.RoutePattern()))
				}
				logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				if !rw.headerWritten {
					dto.WriteErrorResponse(rw, r, errInternalServer)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
