// Package store persists canonical findings as JSONB documents in
// PostgreSQL, one logical collection per tenant, and resolves tenant
// collection bindings.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/api/schemas"
)

// DefaultFetchLimit caps a single existing-set fetch. The reconciler rescans
// the whole set per record, so this is the documented scalability ceiling of
// the fetch-all-then-scan design.
const DefaultFetchLimit = 10000

// DBPool abstracts the pgxpool.Pool surface the store needs, so tests can
// substitute pgxmock.
type DBPool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the PostgreSQL implementation of schemas.DocumentStore. The
// stored document is the flat Finding itself; fingerprints are never written.
type Store struct {
	pool       DBPool
	fetchLimit int
	log        *zap.Logger
}

var _ schemas.DocumentStore = (*Store)(nil)

// New creates a store and verifies the connection.
func New(ctx context.Context, pool DBPool, fetchLimit int, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if fetchLimit <= 0 {
		fetchLimit = DefaultFetchLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		pool:       pool,
		fetchLimit: fetchLimit,
		log:        logger.Named("store"),
	}, nil
}

// FetchByTenantAndTool returns every finding stored in the collection for
// one tool type, up to the fetch cap. Document ids are copied onto the
// decoded findings.
func (s *Store) FetchByTenantAndTool(ctx context.Context, collection string, tool schemas.ToolType) ([]schemas.Finding, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, doc FROM findings
		WHERE collection = $1 AND tool_type = $2
		LIMIT $3;
	`, collection, string(tool), s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []schemas.Finding
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan finding row: %w", err)
		}
		var f schemas.Finding
		if err := json.Unmarshal(doc, &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal finding %s: %w", id, err)
		}
		f.ID = id
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return findings, nil
}

// Put upserts a finding under its id. The same statement serves insert and
// full-document replace, matching the collaborator's upsert contract.
func (s *Store) Put(ctx context.Context, collection string, f schemas.Finding) (string, error) {
	doc, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to marshal finding %s: %w", f.ID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO findings (collection, id, tool_type, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id) DO UPDATE SET
			tool_type = EXCLUDED.tool_type,
			doc = EXCLUDED.doc;
	`, collection, f.ID, string(f.ToolType), doc)
	if err != nil {
		return "", fmt.Errorf("failed to upsert finding %s: %w", f.ID, err)
	}
	return f.ID, nil
}
