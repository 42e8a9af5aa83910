package queue

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/api/schemas"
)

// ackTopic is the publish surface of a *pubsub.Topic, abstracted for tests.
type ackTopic interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// AckPublisher publishes batch acknowledgements on the acknowledgement
// topic. It implements schemas.AckSink.
type AckPublisher struct {
	topic ackTopic
	log   *zap.Logger
}

var _ schemas.AckSink = (*AckPublisher)(nil)

// NewAckPublisher wraps a topic into an acknowledgement sink.
func NewAckPublisher(topic ackTopic, logger *zap.Logger) (*AckPublisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("cannot initialize ack publisher with nil topic")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AckPublisher{topic: topic, log: logger.Named("ack_publisher")}, nil
}

// SendAck publishes the terminal outcome for one batch and blocks until the
// server confirms the message.
func (p *AckPublisher) SendAck(ctx context.Context, correlationID string, success bool) error {
	ack := schemas.NewParseAcknowledgement(correlationID, success)
	data, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("failed to marshal acknowledgement: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish acknowledgement for %s: %w", correlationID, err)
	}
	p.log.Info("Sent batch acknowledgement",
		zap.String("jobId", correlationID),
		zap.Bool("success", success))
	return nil
}
