package dto

import (
	"strconv"
	"strings"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// RunSampleRequest is the JSON body of POST /api/v1/samples/{name}/run.
type RunSampleRequest struct {
	Args []string `json:"args"`
}

// Validate accepts any argument list; binding checks arity.
func (r *RunSampleRequest) Validate() error {
	return nil
}

// BatchRequest is the JSON body of POST /api/v1/samples/batch.
type BatchRequest struct {
	Invocations []InvocationRequest `json:"invocations"`
}

// InvocationRequest names one sample run inside a batch.
type InvocationRequest struct {
	Sample string   `json:"sample"`
	Args   []string `json:"args"`
}

// Validate checks that the batch is non-empty and names every sample.
func (r *BatchRequest) Validate() error {
	fields := make(map[string]string)

	if len(r.Invocations) == 0 {
		fields["invocations"] = domain.MsgRequired
	}
	for i, inv := range r.Invocations {
		if strings.TrimSpace(inv.Sample) == "" {
			fields["invocations["+strconv.Itoa(i)+"].sample"] = domain.MsgRequired
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// SendMessageRequest is the body of POST /pubsub/messages.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// Validate checks that the message is not blank.
func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return domain.NewValidationError("message", domain.MsgRequired)
	}
	return nil
}

// CastVoteRequest is the body of POST /votes.
type CastVoteRequest struct {
	Team string `json:"team"`
}

// Validate checks that a team was given; the candidate itself is parsed by
// the domain.
func (r *CastVoteRequest) Validate() error {
	if strings.TrimSpace(r.Team) == "" {
		return domain.NewValidationError("team", domain.MsgRequired)
	}
	return nil
}
