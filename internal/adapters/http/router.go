// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	sampleHandler *handlers.SampleHandler,
	pubsubHandler *handlers.PubSubHandler,
	voteHandler *handlers.VoteHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Sample catalog.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/samples", sampleHandler.ListSamples)
		r.Post("/samples/batch", sampleHandler.RunBatch)
		r.Get("/samples/{name}", sampleHandler.GetSample)
		r.Post("/samples/{name}/run", sampleHandler.RunSample)
	})

	// Pub/Sub web app.
	r.Route("/pubsub", func(r chi.Router) {
		r.Get("/messages", pubsubHandler.ListMessages)
		r.Post("/messages", pubsubHandler.SendMessage)
		r.Post("/push", pubsubHandler.Push)
	})

	// Cloud SQL voting app.
	r.Get("/votes", voteHandler.Summary)
	r.Post("/votes", voteHandler.Cast)

	return r
}
