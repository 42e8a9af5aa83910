// Package queue is the Pub/Sub transport: it receives batch trigger events,
// hands them to the pipeline, and publishes acknowledgements.
package queue

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/xkilldash9x/findingsd/internal/config"
)

// NewClient builds a Pub/Sub client from config. Explicit credentials JSON
// takes precedence; otherwise Application Default Credentials apply.
func NewClient(ctx context.Context, cfg config.PubSubConfig) (*pubsub.Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("pubsub project id is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return client, nil
}

// EnsureTopic returns the named topic, creating it first when it does not
// exist. Intended for development environments; production topics are
// provisioned out of band.
func EnsureTopic(ctx context.Context, client *pubsub.Client, name string) (*pubsub.Topic, error) {
	if name == "" {
		return nil, fmt.Errorf("topic name is required")
	}
	topic := client.Topic(name)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %q: %w", name, err)
	}
	if exists {
		return topic, nil
	}
	topic, err = client.CreateTopic(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create topic %q: %w", name, err)
	}
	return topic, nil
}

// EnsureSubscription returns the named subscription on the topic, creating
// it when absent.
func EnsureSubscription(ctx context.Context, client *pubsub.Client, name string, topic *pubsub.Topic) (*pubsub.Subscription, error) {
	if name == "" {
		return nil, fmt.Errorf("subscription name is required")
	}
	sub := client.Subscription(name)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription %q: %w", name, err)
	}
	if exists {
		return sub, nil
	}
	sub, err = client.CreateSubscription(ctx, name, pubsub.SubscriptionConfig{Topic: topic})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription %q: %w", name, err)
	}
	return sub, nil
}
