package handlers

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/dto"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

// isJSON reports whether the request declares a JSON body.
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// formValue reads field from a JSON body when the request is JSON, and from
// the URL-encoded or multipart form otherwise. The web apps accept both so
// that plain HTML forms keep working.
func formValue[T validatable](w http.ResponseWriter, r *http.Request, dst T, field string, set func(string)) bool {
	if isJSON(r) {
		return decodeAndValidate(w, r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := r.ParseForm(); err != nil {
		dto.WriteErrorResponse(w, r, domain.NewValidationError("body", "invalid form"))
		return false
	}
	set(r.PostForm.Get(field))
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
