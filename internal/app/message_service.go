package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// MessageFetchLimit is the number of stored messages Fetch returns.
const MessageFetchLimit = 20

// Compile-time check that MessageService implements ports.MessageService.
var _ ports.MessageService = (*MessageService)(nil)

// MessageService backs the Pub/Sub web app: it publishes submitted text to
// one topic and keeps the messages Pub/Sub pushes back.
type MessageService struct {
	pubsub ports.PubSub
	store  ports.MessageStore
	topic  string
	logger *slog.Logger
}

// NewMessageService creates a MessageService publishing to topic.
func NewMessageService(pubsub ports.PubSub, store ports.MessageStore, topic string, logger *slog.Logger) *MessageService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MessageService{
		pubsub: pubsub,
		store:  store,
		topic:  topic,
		logger: logger,
	}
}

// Send publishes text to the configured topic.
func (s *MessageService) Send(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.NewValidationError("message", domain.MsgRequired)
	}

	id, err := s.pubsub.Publish(ctx, s.topic, message.Message{Data: text})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish message",
			slog.String("operation", "Send"),
			slog.String("topic", s.topic),
			slog.Any("error", err),
		)
		return "", err
	}

	s.logger.InfoContext(ctx, "message published",
		slog.String("topic", s.topic),
		slog.String("message_id", id),
	)
	return id, nil
}

// Receive stores a pushed message.
func (s *MessageService) Receive(ctx context.Context, msg message.Message) error {
	if msg.Data == "" {
		return domain.NewValidationError("message.data", domain.MsgRequired)
	}

	if err := s.store.Save(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to store message",
			slog.String("operation", "Receive"),
			slog.String("message_id", msg.ID),
			slog.Any("error", err),
		)
		return err
	}

	s.logger.DebugContext(ctx, "message received", slog.String("message_id", msg.ID))
	return nil
}

// Fetch returns up to MessageFetchLimit stored messages, newest first.
func (s *MessageService) Fetch(ctx context.Context) ([]message.Message, error) {
	msgs, err := s.store.Recent(ctx, MessageFetchLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch messages",
			slog.String("operation", "Fetch"),
			slog.Any("error", err),
		)
		return nil, err
	}
	return msgs, nil
}
