package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/dto"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// errRunsDisabled is returned for run and batch requests when
// server.sample_runs is off.
var errRunsDisabled = fmt.Errorf("sample runs over HTTP are disabled: %w", domain.ErrForbidden)

// SampleHandler exposes the sample catalog over HTTP. Samples marked
// LocalOnly are listed and described but never run for an HTTP caller.
type SampleHandler struct {
	svc          ports.SampleService
	logger       *slog.Logger
	runsDisabled bool
}

// SampleHandlerOption configures a SampleHandler.
type SampleHandlerOption func(*SampleHandler)

// WithoutRuns makes run and batch requests fail with 403.
func WithoutRuns() SampleHandlerOption {
	return func(h *SampleHandler) {
		h.runsDisabled = true
	}
}

// NewSampleHandler creates a SampleHandler.
func NewSampleHandler(svc ports.SampleService, logger *slog.Logger, opts ...SampleHandlerOption) *SampleHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &SampleHandler{svc: svc, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListSamples handles GET /api/v1/samples, optionally filtered by ?product=.
func (h *SampleHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	samples := h.svc.List(r.URL.Query().Get("product"))
	writeJSON(w, http.StatusOK, dto.ToSampleListResponse(samples))
}

// GetSample handles GET /api/v1/samples/{name}.
func (h *SampleHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Describe(chi.URLParam(r, "name"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToSampleResponse(&s))
}

// RunSample handles POST /api/v1/samples/{name}/run. An empty body runs the
// sample without arguments.
func (h *SampleHandler) RunSample(w http.ResponseWriter, r *http.Request) {
	if h.runsDisabled {
		dto.WriteErrorResponse(w, r, errRunsDisabled)
		return
	}

	var req dto.RunSampleRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.WriteErrorResponse(w, r, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	name := chi.URLParam(r, "name")
	if err := h.checkRemote(r, name); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var out bytes.Buffer
	if err := h.svc.Run(r.Context(), name, req.Args, &out); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RunSampleResponse{Output: out.String()})
}

// RunBatch handles POST /api/v1/samples/batch. Individual failures are
// reported per result; the response itself is 200.
func (h *SampleHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	if h.runsDisabled {
		dto.WriteErrorResponse(w, r, errRunsDisabled)
		return
	}

	var req dto.BatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invocations := make([]ports.Invocation, len(req.Invocations))
	for i, inv := range req.Invocations {
		if err := h.checkRemote(r, inv.Sample); err != nil {
			dto.WriteErrorResponse(w, r, fmt.Errorf("invocations[%d]: %w", i, err))
			return
		}
		invocations[i] = ports.Invocation{Sample: inv.Sample, Args: inv.Args}
	}

	resp := dto.ToBatchResponse(h.svc.RunBatch(r.Context(), invocations))
	if resp.Failed > 0 {
		h.logger.WarnContext(r.Context(), "batch finished with failures",
			slog.Int("failed", resp.Failed),
			slog.Int("total", len(resp.Results)),
		)
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkRemote rejects samples that may only run from the CLI. Unknown names
// pass through so the run reports them as not found.
func (h *SampleHandler) checkRemote(r *http.Request, name string) error {
	s, err := h.svc.Describe(name)
	if err != nil || !s.LocalOnly {
		return nil
	}
	h.logger.WarnContext(r.Context(), "rejected local-only sample",
		slog.String("sample", name),
		slog.String("remote_addr", r.RemoteAddr),
	)
	return fmt.Errorf("sample %q runs from the CLI only: %w", name, domain.ErrForbidden)
}
