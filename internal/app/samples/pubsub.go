package samples

import (
	"context"
	"io"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// defaultPullMax is the message count pull_messages requests when MAX is omitted.
const defaultPullMax = "10"

func registerPubSub(r *Registry, d Deps) {
	pubsub := func(fn func(context.Context, ports.PubSub, sample.Args, io.Writer) error) RunFunc {
		return func(ctx context.Context, args sample.Args, out io.Writer) error {
			return with(ctx, d.Clients.PubSub, func(c ports.PubSub) error {
				return fn(ctx, c, args, out)
			})
		}
	}
	reg := func(name, summary string, run RunFunc, params ...sample.Param) {
		r.Register(sample.Sample{Name: name, Product: ProductPubSub, Summary: summary, Params: params}, run)
	}

	topicParam := param("TOPIC", "topic ID")

	reg("create_topic", "Create a topic.",
		pubsub(func(ctx context.Context, c ports.PubSub, args sample.Args, out io.Writer) error {
			name, err := c.CreateTopic(ctx, args.String("TOPIC"))
			if err != nil {
				return err
			}
			printf(out, "Topic created: %s", name)
			return nil
		}), topicParam)

	reg("list_topics", "List the topics of the configured project.",
		pubsub(func(ctx context.Context, c ports.PubSub, _ sample.Args, out io.Writer) error {
			topics, err := c.ListTopics(ctx)
			if err != nil {
				return err
			}
			for _, t := range topics {
				printf(out, "Topic: %s", t)
			}
			return nil
		}))

	reg("delete_topic", "Delete a topic.",
		pubsub(func(ctx context.Context, c ports.PubSub, args sample.Args, out io.Writer) error {
			if err := c.DeleteTopic(ctx, args.String("TOPIC")); err != nil {
				return err
			}
			printf(out, "Topic deleted: %s", args.String("TOPIC"))
			return nil
		}), topicParam)

	reg("publish_message", "Publish a message to a topic.",
		pubsub(func(ctx context.Context, c ports.PubSub, args sample.Args, out io.Writer) error {
			text := args.String("MESSAGE")
			if text == "" {
				return domain.NewValidationError("MESSAGE", domain.MsgRequired)
			}
			id, err := c.Publish(ctx, args.String("TOPIC"), message.Message{Data: text})
			if err != nil {
				return err
			}
			printf(out, "Message published: %s", id)
			return nil
		}), topicParam, param("MESSAGE", "message text"))

	reg("create_subscription", "Create a pull subscription on a topic.",
		pubsub(func(ctx context.Context, c ports.PubSub, args sample.Args, out io.Writer) error {
			name, err := c.CreateSubscription(ctx, args.String("TOPIC"), args.String("SUBSCRIPTION"))
			if err != nil {
				return err
			}
			printf(out, "Subscription created: %s", name)
			return nil
		}), topicParam, param("SUBSCRIPTION", "subscription ID"))

	reg("pull_messages", "Pull and acknowledge messages from a subscription.",
		pubsub(func(ctx context.Context, c ports.PubSub, args sample.Args, out io.Writer) error {
			maxMessages, err := args.Int("MAX")
			if err != nil {
				return err
			}
			if maxMessages < 1 {
				return domain.NewValidationError("MAX", "must be at least 1")
			}
			msgs, err := c.Pull(ctx, args.String("SUBSCRIPTION"), maxMessages)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				printf(out, "Message: %s", m.Data)
			}
			return nil
		}), param("SUBSCRIPTION", "subscription ID"), optional("MAX", "maximum messages to pull", defaultPullMax))
}
