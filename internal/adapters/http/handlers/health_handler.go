package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
	statusDegraded = "degraded"
)

// HealthHandler handles liveness and readiness HTTP endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
	critical map[string]bool
}

// NewHealthHandler creates a new HealthHandler with the given health registry.
//
// critical names the checks that gate readiness. A failing check outside that
// set reports the service as degraded but keeps it in rotation, which suits
// the Google API circuit breakers: an open breaker fails sample runs fast
// without making the web apps unavailable. With no names every check is
// critical.
func NewHealthHandler(registry ports.HealthRegistry, critical ...string) *HealthHandler {
	h := &HealthHandler{registry: registry}
	if len(critical) > 0 {
		h.critical = make(map[string]bool, len(critical))
		for _, name := range critical {
			h.critical[name] = true
		}
	}
	return h
}

func (h *HealthHandler) isCritical(name string) bool {
	return h.critical == nil || h.critical[name]
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. Returns 503 if a critical check fails
// and 200 otherwise, with status "degraded" when only non-critical checks fail.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	status := statusReady
	for name, err := range results {
		if err == nil {
			checks[name] = statusOK
			continue
		}
		checks[name] = err.Error()
		switch {
		case h.isCritical(name):
			status = statusNotReady
		case status == statusReady:
			status = statusDegraded
		}
	}

	code := http.StatusOK
	if status == statusNotReady {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
