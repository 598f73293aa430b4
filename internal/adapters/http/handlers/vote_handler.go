package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/dto"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// VoteHandler serves the Cloud SQL "tabs versus spaces" app.
type VoteHandler struct {
	svc ports.VoteService
}

// NewVoteHandler creates a VoteHandler.
func NewVoteHandler(svc ports.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Summary handles GET /votes.
func (h *VoteHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToVoteSummaryResponse(sum))
}

// Cast handles POST /votes with a form or JSON "team" of TABS or SPACES.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req dto.CastVoteRequest
	if !formValue(w, r, &req, "team", func(v string) { req.Team = v }) {
		return
	}

	c, err := vote.ParseCandidate(req.Team)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if err := h.svc.Cast(r.Context(), c); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Vote successfully cast for " + string(c),
	})
}
