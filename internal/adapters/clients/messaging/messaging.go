// Package messaging adapts the Pub/Sub SDK to ports.PubSub.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/gcp"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// ServiceName names the breaker and health check.
const ServiceName = "pubsub"

// DefaultPullWait bounds how long Pull waits for messages to arrive.
const DefaultPullWait = 5 * time.Second

var (
	_ ports.PubSub        = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Client implements ports.PubSub for one project.
type Client struct {
	sdk      *pubsub.Client
	breaker  *gcp.Breaker
	pullWait time.Duration
	logger   *slog.Logger
}

// New creates a Pub/Sub client scoped to projectID.
func New(ctx context.Context, projectID string, breaker *gcp.Breaker, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	sdk, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	return &Client{sdk: sdk, breaker: breaker, pullWait: DefaultPullWait, logger: logger}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.sdk.Close()
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string { return c.breaker.Name() }

// HealthCheck reports the breaker state.
func (c *Client) HealthCheck(ctx context.Context) error { return c.breaker.HealthCheck(ctx) }

// CreateTopic creates a topic.
func (c *Client) CreateTopic(ctx context.Context, topicID string) (string, error) {
	t, err := gcp.Call(c.breaker, func() (*pubsub.Topic, error) {
		return c.sdk.CreateTopic(ctx, topicID)
	})
	if err != nil {
		return "", fmt.Errorf("creating topic %s: %w", topicID, err)
	}
	return t.String(), nil
}

// ListTopics returns the project's topic names.
func (c *Client) ListTopics(ctx context.Context) ([]string, error) {
	names, err := gcp.Call(c.breaker, func() ([]string, error) {
		var out []string
		it := c.sdk.Topics(ctx)
		for {
			t, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return out, nil
			}
			if err != nil {
				return nil, err
			}
			out = append(out, t.String())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return names, nil
}

// DeleteTopic deletes a topic.
func (c *Client) DeleteTopic(ctx context.Context, topicID string) error {
	if err := c.breaker.Do(func() error { return c.sdk.Topic(topicID).Delete(ctx) }); err != nil {
		return fmt.Errorf("deleting topic %s: %w", topicID, err)
	}
	return nil
}

// Publish publishes msg and waits for the server-assigned ID.
func (c *Client) Publish(ctx context.Context, topicID string, msg message.Message) (string, error) {
	id, err := gcp.Call(c.breaker, func() (string, error) {
		t := c.sdk.Topic(topicID)
		defer t.Stop()
		return t.Publish(ctx, &pubsub.Message{
			Data:       []byte(msg.Data),
			Attributes: msg.Attributes,
		}).Get(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("publishing to %s: %w", topicID, err)
	}
	return id, nil
}

// CreateSubscription creates a pull subscription on topicID.
func (c *Client) CreateSubscription(ctx context.Context, topicID, subscriptionID string) (string, error) {
	sub, err := gcp.Call(c.breaker, func() (*pubsub.Subscription, error) {
		return c.sdk.CreateSubscription(ctx, subscriptionID, pubsub.SubscriptionConfig{
			Topic: c.sdk.Topic(topicID),
		})
	})
	if err != nil {
		return "", fmt.Errorf("creating subscription %s: %w", subscriptionID, err)
	}
	return sub.String(), nil
}

// Pull receives and acknowledges up to maxMessages, returning early once
// that many arrived or after the pull wait elapses.
func (c *Client) Pull(ctx context.Context, subscriptionID string, maxMessages int) ([]message.Message, error) {
	sub := c.sdk.Subscription(subscriptionID)
	sub.ReceiveSettings.MaxOutstandingMessages = maxMessages
	sub.ReceiveSettings.NumGoroutines = 1

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, c.pullWait)
	defer cancel()

	var (
		mu  sync.Mutex
		out []message.Message
	)
	err := c.breaker.Do(func() error {
		return sub.Receive(ctx, func(_ context.Context, m *pubsub.Message) {
			mu.Lock()
			defer mu.Unlock()
			if len(out) >= maxMessages {
				m.Nack()
				return
			}
			m.Ack()
			out = append(out, fromSDK(m))
			if len(out) >= maxMessages {
				cancel()
			}
		})
	})
	if perr := parent.Err(); perr != nil {
		return nil, perr
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("pulling from %s: %w", subscriptionID, err)
	}

	c.logger.DebugContext(parent, "messages pulled",
		slog.String("subscription", subscriptionID),
		slog.Int("count", len(out)),
	)
	mu.Lock()
	defer mu.Unlock()
	return out, nil
}

func fromSDK(m *pubsub.Message) message.Message {
	return message.Message{
		ID:          m.ID,
		Data:        string(m.Data),
		Attributes:  m.Attributes,
		PublishTime: m.PublishTime,
	}
}
