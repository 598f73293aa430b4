package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/dto"
	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
	"github.com/jsamuelsen11/gcp-samples/mocks"
)

func TestVoteSummary_Success(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockVoteService(t)
	svc.EXPECT().Summary(mock.Anything).Return(&vote.Summary{
		Tally:  vote.Tally{Tabs: 3},
		Recent: []vote.Vote{{Candidate: vote.Tabs, CastAt: testTime}},
	}, nil)

	h := handlers.NewVoteHandler(svc)
	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/votes", nil))

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.VoteSummaryResponse](t, rec)
	if resp.TabCount != 3 || resp.LeadMessage != "TABS are winning by 3 votes!" {
		t.Errorf("response = %+v", resp)
	}
}

func TestVoteSummary_ServiceError(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockVoteService(t)
	svc.EXPECT().Summary(mock.Anything).Return(nil, domain.ErrUnavailable)

	h := handlers.NewVoteHandler(svc)
	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/votes", nil))

	requireStatus(t, rec, http.StatusBadGateway)
}

func TestCastVote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		json       bool
		want       vote.Candidate
		wantStatus int
	}{
		{name: "form tabs", body: "team=TABS", want: vote.Tabs, wantStatus: http.StatusOK},
		{name: "form lowercase", body: "team=spaces", want: vote.Spaces, wantStatus: http.StatusOK},
		{name: "json", body: `{"team":"TABS"}`, json: true, want: vote.Tabs, wantStatus: http.StatusOK},
		{name: "missing team", body: "", wantStatus: http.StatusBadRequest},
		{name: "unknown team", body: "team=EMACS", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := mocks.NewMockVoteService(t)
			if tt.want != "" {
				svc.EXPECT().Cast(mock.Anything, tt.want).Return(nil)
			}

			h := handlers.NewVoteHandler(svc)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(tt.body))
			if tt.json {
				req.Header.Set("Content-Type", "application/json")
			} else {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			h.Cast(rec, req)

			requireStatus(t, rec, tt.wantStatus)
		})
	}
}
