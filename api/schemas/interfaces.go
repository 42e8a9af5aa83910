package schemas

import (
	"context"
	"errors"
)

// ErrTenantNotBound is returned by a TenantCatalog when a tenant has no
// usable collection binding. It is fatal for that tenant's whole batch.
var ErrTenantNotBound = errors.New("tenant has no collection binding")

// DocumentStore is the persistence collaborator. Findings are stored as flat
// documents; no derived dedup fields are ever written.
type DocumentStore interface {
	// FetchByTenantAndTool returns every stored finding in the given
	// collection for one tool type, up to the store's fetch cap. IDs are
	// populated on the returned findings.
	FetchByTenantAndTool(ctx context.Context, collection string, tool ToolType) ([]Finding, error)

	// Put upserts a finding under its ID and returns the committed id.
	// The same call serves both insert and full-document update.
	Put(ctx context.Context, collection string, f Finding) (string, error)
}

// TenantCatalog resolves a tenant id to the name of its document collection.
type TenantCatalog interface {
	// CollectionFor returns the collection name for a tenant, or an error
	// wrapping ErrTenantNotBound when no non-blank binding exists.
	CollectionFor(ctx context.Context, tenantID int64) (string, error)
}

// AckSink receives the terminal outcome of a triggered batch. Implementations
// must tolerate being called with an already-cancelled request context.
type AckSink interface {
	SendAck(ctx context.Context, correlationID string, success bool) error
}
