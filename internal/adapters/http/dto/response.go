// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// SampleResponse describes one sample.
type SampleResponse struct {
	Name      string          `json:"name"`
	Product   string          `json:"product"`
	Summary   string          `json:"summary"`
	Usage     string          `json:"usage"`
	Params    []ParamResponse `json:"params"`
	LocalOnly bool            `json:"local_only,omitempty"`
}

// ParamResponse describes one positional parameter.
type ParamResponse struct {
	Name     string `json:"name"`
	Usage    string `json:"usage,omitempty"`
	Optional bool   `json:"optional"`
	Default  string `json:"default,omitempty"`
}

// SampleListResponse lists samples.
type SampleListResponse struct {
	Samples []SampleResponse `json:"samples"`
	Count   int              `json:"count"`
}

// ToSampleResponse converts a sample descriptor.
func ToSampleResponse(s *sample.Sample) SampleResponse {
	params := make([]ParamResponse, len(s.Params))
	for i, p := range s.Params {
		params[i] = ParamResponse{
			Name:     p.Name,
			Usage:    p.Usage,
			Optional: p.Optional,
			Default:  p.Default,
		}
	}
	return SampleResponse{
		Name:      s.Name,
		Product:   s.Product,
		Summary:   s.Summary,
		Usage:     s.Usage(),
		Params:    params,
		LocalOnly: s.LocalOnly,
	}
}

// ToSampleListResponse converts a list of descriptors.
func ToSampleListResponse(samples []sample.Sample) SampleListResponse {
	items := make([]SampleResponse, len(samples))
	for i := range samples {
		items[i] = ToSampleResponse(&samples[i])
	}
	return SampleListResponse{Samples: items, Count: len(items)}
}

// RunSampleResponse carries a sample's captured output.
type RunSampleResponse struct {
	Output string `json:"output"`
}

// BatchResultResponse is the outcome of one batch invocation.
type BatchResultResponse struct {
	Sample     string   `json:"sample"`
	Args       []string `json:"args"`
	Output     string   `json:"output"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// BatchResponse lists batch results in input order.
type BatchResponse struct {
	Results []BatchResultResponse `json:"results"`
	Failed  int                   `json:"failed"`
}

// ToBatchResponse converts batch results.
func ToBatchResponse(results []ports.RunResult) BatchResponse {
	resp := BatchResponse{Results: make([]BatchResultResponse, len(results))}
	for i, r := range results {
		item := BatchResultResponse{
			Sample:     r.Invocation.Sample,
			Args:       r.Invocation.Args,
			Output:     r.Output,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			item.Error = r.Err.Error()
			resp.Failed++
		}
		resp.Results[i] = item
	}
	return resp
}

// MessageResponse is one stored Pub/Sub message.
type MessageResponse struct {
	ID          string            `json:"id,omitempty"`
	Data        string            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	PublishTime string            `json:"publish_time,omitempty"`
}

// ToMessageList converts messages, keeping their order.
func ToMessageList(msgs []message.Message) []MessageResponse {
	out := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = MessageResponse{
			ID:         m.ID,
			Data:       m.Data,
			Attributes: m.Attributes,
		}
		if !m.PublishTime.IsZero() {
			out[i].PublishTime = m.PublishTime.Format(time.RFC3339)
		}
	}
	return out
}

// VoteResponse is one recent vote.
type VoteResponse struct {
	Candidate string `json:"candidate"`
	TimeCast  string `json:"time_cast"`
}

// VoteSummaryResponse is the page model of the voting app.
type VoteSummaryResponse struct {
	TabCount    int            `json:"tab_count"`
	SpaceCount  int            `json:"space_count"`
	LeadMessage string         `json:"lead_message"`
	RecentVotes []VoteResponse `json:"recent_votes"`
}

// ToVoteSummaryResponse converts a vote summary.
func ToVoteSummaryResponse(s *vote.Summary) VoteSummaryResponse {
	recent := make([]VoteResponse, len(s.Recent))
	for i, v := range s.Recent {
		recent[i] = VoteResponse{
			Candidate: string(v.Candidate),
			TimeCast:  v.CastAt.UTC().Format(time.RFC3339),
		}
	}
	return VoteSummaryResponse{
		TabCount:    s.Tally.Tabs,
		SpaceCount:  s.Tally.Spaces,
		LeadMessage: s.Tally.Leader(),
		RecentVotes: recent,
	}
}
