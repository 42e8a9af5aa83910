// Package service performs the dependency wiring: every collaborator is
// constructed here from config and handed to its consumers, so nothing in
// the pipeline reaches for process-global state.
package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/internal/config"
	"github.com/xkilldash9x/findingsd/internal/fingerprint"
	"github.com/xkilldash9x/findingsd/internal/pipeline"
	"github.com/xkilldash9x/findingsd/internal/queue"
	"github.com/xkilldash9x/findingsd/internal/reconcile"
	"github.com/xkilldash9x/findingsd/internal/store"
)

// Core is the storage-side component set, enough to run batches invoked
// locally (the parse subcommand).
type Core struct {
	Pool       *pgxpool.Pool
	Store      *store.Store
	Catalog    *store.Catalog
	Reconciler *reconcile.Reconciler
}

// NewCore connects to the database and builds the reconciliation stack.
func NewCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Core, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	st, err := store.New(ctx, pool, cfg.Database.FetchLimit, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	catalog := store.NewCatalog(pool, logger)

	policy := fingerprint.Policy{IncludeLocation: cfg.Pipeline.DedupeOnLocation}
	rec, err := reconcile.New(st, catalog, policy, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Core{Pool: pool, Store: st, Catalog: catalog, Reconciler: rec}, nil
}

// Close releases the database pool.
func (c *Core) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// Transport is the queue-side component set for the serve subcommand.
type Transport struct {
	Client     *pubsub.Client
	AckPub     *queue.AckPublisher
	Subscriber *queue.Subscriber
}

// NewTransport builds the Pub/Sub client, the acknowledgement publisher, the
// pipeline driver on top of the core, and the trigger subscriber.
func NewTransport(ctx context.Context, cfg *config.Config, core *Core, logger *zap.Logger) (*Transport, error) {
	client, err := queue.NewClient(ctx, cfg.PubSub)
	if err != nil {
		return nil, err
	}

	ackTopic := client.Topic(cfg.PubSub.AckTopic)
	sub := client.Subscription(cfg.PubSub.SubscriptionID)
	if cfg.PubSub.CreateResources {
		if ackTopic, err = queue.EnsureTopic(ctx, client, cfg.PubSub.AckTopic); err != nil {
			client.Close()
			return nil, err
		}
		jobTopic, err := queue.EnsureTopic(ctx, client, cfg.PubSub.JobTopic)
		if err != nil {
			client.Close()
			return nil, err
		}
		if sub, err = queue.EnsureSubscription(ctx, client, cfg.PubSub.SubscriptionID, jobTopic); err != nil {
			client.Close()
			return nil, err
		}
	}

	ackPub, err := queue.NewAckPublisher(ackTopic, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	driver, err := pipeline.New(core.Reconciler, ackPub, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	subscriber, err := queue.NewSubscriber(sub, driver,
		cfg.PubSub.MaxConcurrentBatches, cfg.PubSub.IntakePerSecond, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Transport{Client: client, AckPub: ackPub, Subscriber: subscriber}, nil
}

// Close releases the Pub/Sub client.
func (t *Transport) Close() {
	if t.Client != nil {
		_ = t.Client.Close()
	}
}
