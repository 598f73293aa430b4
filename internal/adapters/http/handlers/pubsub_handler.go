package handlers

import (
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/http/dto"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// PubSubHandler serves the Pub/Sub web app: sending messages, receiving
// push deliveries and listing what was received.
type PubSubHandler struct {
	svc    ports.MessageService
	token  string
	logger *slog.Logger
}

// NewPubSubHandler creates a PubSubHandler. A non-empty token must be
// presented as ?token= on push requests.
func NewPubSubHandler(svc ports.MessageService, token string, logger *slog.Logger) *PubSubHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PubSubHandler{svc: svc, token: token, logger: logger}
}

// ListMessages handles GET /pubsub/messages.
func (h *PubSubHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Fetch(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToMessageList(msgs))
}

// SendMessage handles POST /pubsub/messages with a form or JSON "message".
func (h *PubSubHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if !formValue(w, r, &req, "message", func(v string) { req.Message = v }) {
		return
	}

	if _, err := h.svc.Send(r.Context(), req.Message); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Push handles POST /pubsub/push, the endpoint a push subscription
// delivers to. Any 2xx acknowledges the message.
func (h *PubSubHandler) Push(w http.ResponseWriter, r *http.Request) {
	if h.token != "" {
		got := r.URL.Query().Get("token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			h.logger.WarnContext(r.Context(), "push rejected: bad verification token")
			dto.WriteErrorResponse(w, r, domain.ErrForbidden)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		dto.WriteErrorResponse(w, r, domain.NewValidationError("body", "too large or unreadable"))
		return
	}

	msg, err := message.DecodePush(body)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if err := h.svc.Receive(r.Context(), msg); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
