package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"google.golang.org/genproto/googleapis/rpc/code"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// ErrorResponse represents an RFC 9457 Problem Details response. The Code
// extension member carries the canonical Google RPC status name (NOT_FOUND,
// PERMISSION_DENIED, ...) so callers used to Google API errors can branch on
// it without parsing the HTTP status.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Code     string        `json:"code"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents a single field-level validation error within
// an ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a domain error.
// The request is used to populate the instance field with the request URI.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	m := classify(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(m.status),
		Status:   m.status,
		Code:     m.code.String(),
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(verr.Fields)
	}

	return resp
}

// WriteErrorResponse writes an RFC 9457 error response for the given domain
// error. It sets the Content-Type to application/problem+json, writes the
// appropriate HTTP status code, and marshals the error body as JSON.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// errorMapping pairs a domain sentinel with its HTTP status and RPC code.
type errorMapping struct {
	sentinel error
	status   int
	code     code.Code
}

// errorMappings is checked in order; the first sentinel err wraps wins.
var errorMappings = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, code.Code_INVALID_ARGUMENT},
	{domain.ErrNotFound, http.StatusNotFound, code.Code_NOT_FOUND},
	{domain.ErrForbidden, http.StatusForbidden, code.Code_PERMISSION_DENIED},
	{domain.ErrConflict, http.StatusConflict, code.Code_ALREADY_EXISTS},
	{domain.ErrUnavailable, http.StatusBadGateway, code.Code_UNAVAILABLE},
	{domain.ErrOperationFailed, http.StatusUnprocessableEntity, code.Code_FAILED_PRECONDITION},
}

var internalMapping = errorMapping{status: http.StatusInternalServerError, code: code.Code_INTERNAL}

func classify(err error) errorMapping {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			return m
		}
	}
	return internalMapping
}

// validationFieldsToDetails converts domain validation fields to sorted
// ErrorDetail entries.
func validationFieldsToDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ErrorDetail{
			Location: "body." + field,
			Message:  msg,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Location < details[j].Location
	})
	return details
}
