package queue

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/pipeline"
)

// Runner is the batch processing collaborator, satisfied by pipeline.Driver.
type Runner interface {
	Run(ctx context.Context, job schemas.ParseJobEvent) pipeline.BatchOutcome
}

// receiver is the receive surface of a *pubsub.Subscription.
type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Subscriber consumes batch trigger events. Batches for different
// (tenant, tool) scopes run concurrently up to a cap; batches sharing a
// scope are serialized through a keyed lock, which closes the
// fetch-then-write race between overlapping batches for the same scope.
type Subscriber struct {
	sub     receiver
	runner  Runner
	scopes  *scopeLocks
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewSubscriber wires a subscriber. maxConcurrent caps in-flight batches;
// intakePerSecond throttles how fast new batches may start (0 disables the
// throttle).
func NewSubscriber(sub receiver, runner Runner, maxConcurrent int, intakePerSecond float64, logger *zap.Logger) (*Subscriber, error) {
	if sub == nil || runner == nil {
		return nil, fmt.Errorf("cannot initialize subscriber with nil collaborators")
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	limit := rate.Inf
	if intakePerSecond > 0 {
		limit = rate.Limit(intakePerSecond)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		sub:     sub,
		runner:  runner,
		scopes:  newScopeLocks(),
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.Named("subscriber"),
	}, nil
}

// Listen blocks receiving trigger events until the context is cancelled.
func (s *Subscriber) Listen(ctx context.Context) error {
	s.log.Info("Listening for parse jobs")
	return s.sub.Receive(ctx, s.handle)
}

func (s *Subscriber) handle(ctx context.Context, msg *pubsub.Message) {
	if err := s.limiter.Wait(ctx); err != nil {
		msg.Nack()
		return
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		msg.Nack()
		return
	}
	defer s.sem.Release(1)

	var event schemas.ParseJobEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// A message that cannot decode will never decode; drop it rather
		// than redeliver forever.
		s.log.Error("Dropping undecodable trigger message", zap.Error(err))
		msg.Ack()
		return
	}

	scope := scopeKey(event.Payload.TenantID, event.Payload.ToolType)
	unlock := s.scopes.lock(scope)
	defer unlock()

	outcome := s.runner.Run(ctx, event)
	s.log.Info("Batch run finished",
		zap.String("eventId", event.EventID),
		zap.String("scope", scope),
		zap.Bool("succeeded", outcome.Succeeded),
		zap.Int("processed", outcome.Processed))

	// The pipeline has acked the job on its own channel either way; the
	// queue message itself is done. Redelivery of failed batches is the
	// trigger side's decision, not a nack loop here.
	msg.Ack()
}

func scopeKey(tenantID int64, tool schemas.ToolType) string {
	return fmt.Sprintf("%d/%s", tenantID, tool)
}
