// Package reconcile decides, for each incoming finding, whether it is an
// exact duplicate of a stored one, an update to it, or new. The decision is
// made entirely from recomputed fingerprints; no identity key is persisted.
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/fingerprint"
)

// Outcome is the per-record reconciliation decision.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeUpdated
	OutcomeInserted
)

// String implements fmt.Stringer for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "SKIPPED"
	case OutcomeUpdated:
		return "UPDATED"
	case OutcomeInserted:
		return "INSERTED"
	default:
		return "UNKNOWN"
	}
}

// Reconciler fetches a tenant's stored findings and scans them for an
// identity match. It holds no cross-call state: every record re-fetches and
// re-scans the full existing set, which keeps the logic order-independent at
// an O(existing) cost per record.
type Reconciler struct {
	store   schemas.DocumentStore
	catalog schemas.TenantCatalog
	policy  fingerprint.Policy
	log     *zap.Logger
}

// New wires a Reconciler from its collaborators.
func New(store schemas.DocumentStore, catalog schemas.TenantCatalog, policy fingerprint.Policy, logger *zap.Logger) (*Reconciler, error) {
	if store == nil || catalog == nil {
		return nil, fmt.Errorf("cannot initialize reconciler with nil collaborators")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:   store,
		catalog: catalog,
		policy:  policy,
		log:     logger.Named("reconciler"),
	}, nil
}

// Reconcile resolves the tenant's collection, compares the new finding
// against every stored finding of the same tool type, and commits the
// resulting decision. On update the matched document's id is copied onto the
// finding so the write replaces it in place; on insert the finding gets a
// fresh id. Store and catalog errors propagate to the caller, which treats
// them as fatal for the batch.
func (r *Reconciler) Reconcile(ctx context.Context, tenantID int64, f *schemas.Finding) (Outcome, error) {
	collection, err := r.catalog.CollectionFor(ctx, tenantID)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("resolving collection for tenant %d: %w", tenantID, err)
	}

	existing, err := r.store.FetchByTenantAndTool(ctx, collection, f.ToolType)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("fetching existing findings: %w", err)
	}

	identity := r.policy.Identity(*f)
	for _, old := range existing {
		if r.policy.Identity(old) != identity {
			continue
		}
		// First identity match wins; the scope assumes identity digests
		// are unique within tenant+tool.
		if fingerprint.MutableState(old) == fingerprint.MutableState(*f) {
			r.log.Debug("Skipping exact duplicate",
				zap.String("identity", identity),
				zap.String("collection", collection))
			return OutcomeSkipped, nil
		}

		f.ID = old.ID
		if _, err := r.store.Put(ctx, collection, *f); err != nil {
			return OutcomeSkipped, fmt.Errorf("updating finding %s: %w", f.ID, err)
		}
		r.log.Debug("Updated finding",
			zap.String("id", f.ID),
			zap.String("identity", identity))
		return OutcomeUpdated, nil
	}

	f.ID = uuid.NewString()
	if _, err := r.store.Put(ctx, collection, *f); err != nil {
		return OutcomeSkipped, fmt.Errorf("inserting finding %s: %w", f.ID, err)
	}
	r.log.Debug("Inserted new finding",
		zap.String("id", f.ID),
		zap.String("identity", identity))
	return OutcomeInserted, nil
}
