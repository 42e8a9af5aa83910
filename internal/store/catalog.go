package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/api/schemas"
)

// Catalog resolves tenant ids to collection names from the tenant_bindings
// table. It implements schemas.TenantCatalog.
type Catalog struct {
	pool DBPool
	log  *zap.Logger
}

var _ schemas.TenantCatalog = (*Catalog)(nil)

// NewCatalog creates a catalog over an existing pool.
func NewCatalog(pool DBPool, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{pool: pool, log: logger.Named("tenant_catalog")}
}

// CollectionFor returns the collection bound to a tenant. A missing row and
// a blank collection name both resolve to schemas.ErrTenantNotBound: either
// way the tenant's batches cannot be processed.
func (c *Catalog) CollectionFor(ctx context.Context, tenantID int64) (string, error) {
	var collection string
	err := c.pool.QueryRow(ctx, `
		SELECT collection FROM tenant_bindings WHERE tenant_id = $1;
	`, tenantID).Scan(&collection)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("tenant %d: %w", tenantID, schemas.ErrTenantNotBound)
		}
		return "", fmt.Errorf("failed to look up tenant %d: %w", tenantID, err)
	}
	if collection == "" {
		return "", fmt.Errorf("tenant %d has a blank collection: %w", tenantID, schemas.ErrTenantNotBound)
	}
	return collection, nil
}
