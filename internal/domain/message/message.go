// Package message models Pub/Sub messages and push-delivery envelopes.
package message

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// Message is a Pub/Sub message as seen by the samples and the web app.
type Message struct {
	ID          string
	Data        string
	Attributes  map[string]string
	PublishTime time.Time
}

// PushEnvelope is the JSON body Pub/Sub posts to push endpoints.
type PushEnvelope struct {
	Message struct {
		Data        string            `json:"data"`
		MessageID   string            `json:"messageId"`
		Attributes  map[string]string `json:"attributes"`
		PublishTime time.Time         `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// DecodePush parses a push request body and returns the carried message.
// The data field must be valid, non-empty base64.
func DecodePush(body []byte) (Message, error) {
	var env PushEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Message{}, domain.NewValidationError("body", "must be a Pub/Sub push envelope")
	}
	return env.Decode()
}

// Decode converts the envelope into a Message.
func (e PushEnvelope) Decode() (Message, error) {
	if e.Message.Data == "" {
		return Message{}, domain.NewValidationError("message.data", domain.MsgRequired)
	}
	raw, err := base64.StdEncoding.DecodeString(e.Message.Data)
	if err != nil {
		return Message{}, domain.NewValidationError("message.data",
			fmt.Sprintf("invalid base64: %v", err))
	}
	if len(raw) == 0 {
		return Message{}, domain.NewValidationError("message.data", domain.MsgRequired)
	}
	return Message{
		ID:          e.Message.MessageID,
		Data:        string(raw),
		Attributes:  e.Message.Attributes,
		PublishTime: e.Message.PublishTime,
	}, nil
}
