package bootstrap

import (
	"context"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

var _ ports.PubSub = lazyPubSub{}

// pubsubSource is the part of clients.Provider lazyPubSub needs.
type pubsubSource interface {
	PubSub(ctx context.Context) (ports.PubSub, error)
}

// lazyPubSub resolves the Pub/Sub client on each call so the web app can
// start, and serve votes, without Pub/Sub credentials.
type lazyPubSub struct {
	src pubsubSource
}

func (l lazyPubSub) CreateTopic(ctx context.Context, topicID string) (string, error) {
	c, err := l.src.PubSub(ctx)
	if err != nil {
		return "", err
	}
	return c.CreateTopic(ctx, topicID)
}

func (l lazyPubSub) ListTopics(ctx context.Context) ([]string, error) {
	c, err := l.src.PubSub(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListTopics(ctx)
}

func (l lazyPubSub) DeleteTopic(ctx context.Context, topicID string) error {
	c, err := l.src.PubSub(ctx)
	if err != nil {
		return err
	}
	return c.DeleteTopic(ctx, topicID)
}

func (l lazyPubSub) Publish(ctx context.Context, topicID string, msg message.Message) (string, error) {
	c, err := l.src.PubSub(ctx)
	if err != nil {
		return "", err
	}
	return c.Publish(ctx, topicID, msg)
}

func (l lazyPubSub) CreateSubscription(ctx context.Context, topicID, subscriptionID string) (string, error) {
	c, err := l.src.PubSub(ctx)
	if err != nil {
		return "", err
	}
	return c.CreateSubscription(ctx, topicID, subscriptionID)
}

func (l lazyPubSub) Pull(ctx context.Context, subscriptionID string, maxMessages int) ([]message.Message, error) {
	c, err := l.src.PubSub(ctx)
	if err != nil {
		return nil, err
	}
	return c.Pull(ctx, subscriptionID, maxMessages)
}
