package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/fingerprint"
)

// memStore is an in-memory schemas.DocumentStore for exercising the
// reconciler without a database.
type memStore struct {
	docs     map[string]map[string]schemas.Finding // collection -> id -> finding
	puts     int
	fetchErr error
	putErr   error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]map[string]schemas.Finding)}
}

func (s *memStore) FetchByTenantAndTool(_ context.Context, collection string, tool schemas.ToolType) ([]schemas.Finding, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []schemas.Finding
	for _, f := range s.docs[collection] {
		if f.ToolType == tool {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memStore) Put(_ context.Context, collection string, f schemas.Finding) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]schemas.Finding)
	}
	s.docs[collection][f.ID] = f
	s.puts++
	return f.ID, nil
}

// memCatalog maps tenant ids to collections.
type memCatalog map[int64]string

func (c memCatalog) CollectionFor(_ context.Context, tenantID int64) (string, error) {
	collection, ok := c[tenantID]
	if !ok || collection == "" {
		return "", fmt.Errorf("tenant %d: %w", tenantID, schemas.ErrTenantNotBound)
	}
	return collection, nil
}

func newReconciler(t *testing.T, store *memStore, policy fingerprint.Policy) *Reconciler {
	t.Helper()
	r, err := New(store, memCatalog{12: "tenant-12-findings"}, policy, zap.NewNop())
	require.NoError(t, err)
	return r
}

func sampleFinding() schemas.Finding {
	return schemas.Finding{
		ID:          "pre-assigned",
		ToolType:    schemas.ToolCodeScanning,
		AlertNumber: "42",
		Title:       "SQL Injection",
		Severity:    schemas.SeverityHigh,
		State:       schemas.StateOpen,
		UpdatedAt:   "2025-01-02T00:00:00Z",
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil, fingerprint.Policy{}, nil)
	require.Error(t, err)
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("should insert a first-seen finding then skip its duplicate", func(t *testing.T) {
		store := newMemStore()
		r := newReconciler(t, store, fingerprint.Policy{})

		first := sampleFinding()
		outcome, err := r.Reconcile(ctx, 12, &first)
		require.NoError(t, err)
		assert.Equal(t, OutcomeInserted, outcome)
		assert.NotEqual(t, "pre-assigned", first.ID, "insert assigns a fresh id")

		duplicate := sampleFinding()
		outcome, err = r.Reconcile(ctx, 12, &duplicate)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
		assert.Equal(t, 1, store.puts, "a skip writes nothing")
	})

	t.Run("should update in place when only mutable state differs", func(t *testing.T) {
		store := newMemStore()
		r := newReconciler(t, store, fingerprint.Policy{})

		first := sampleFinding()
		_, err := r.Reconcile(ctx, 12, &first)
		require.NoError(t, err)
		insertedID := first.ID

		changed := sampleFinding()
		changed.State = schemas.StateFixed
		outcome, err := r.Reconcile(ctx, 12, &changed)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome)
		assert.Equal(t, insertedID, changed.ID, "update keeps the original document id")

		stored := store.docs["tenant-12-findings"][insertedID]
		assert.Equal(t, schemas.StateFixed, stored.State)
		assert.Len(t, store.docs["tenant-12-findings"], 1, "update replaces, never adds")
	})

	t.Run("should treat same title under a different tool as a new finding", func(t *testing.T) {
		store := newMemStore()
		r := newReconciler(t, store, fingerprint.Policy{})

		first := sampleFinding()
		_, err := r.Reconcile(ctx, 12, &first)
		require.NoError(t, err)

		other := sampleFinding()
		other.ToolType = schemas.ToolDependabot
		outcome, err := r.Reconcile(ctx, 12, &other)
		require.NoError(t, err)
		assert.Equal(t, OutcomeInserted, outcome)
	})

	t.Run("should fail without writes for an unbound tenant", func(t *testing.T) {
		store := newMemStore()
		r := newReconciler(t, store, fingerprint.Policy{})

		f := sampleFinding()
		_, err := r.Reconcile(ctx, 99, &f)
		require.Error(t, err)
		assert.ErrorIs(t, err, schemas.ErrTenantNotBound)
		assert.Zero(t, store.puts)
	})

	t.Run("should propagate store failures", func(t *testing.T) {
		store := newMemStore()
		store.fetchErr = errors.New("store unavailable")
		r := newReconciler(t, store, fingerprint.Policy{})

		f := sampleFinding()
		_, err := r.Reconcile(ctx, 12, &f)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.fetchErr)
	})

	t.Run("location policy separates findings sharing a title", func(t *testing.T) {
		store := newMemStore()
		r := newReconciler(t, store, fingerprint.Policy{IncludeLocation: true})

		first := sampleFinding()
		first.Location = "app/db.go"
		_, err := r.Reconcile(ctx, 12, &first)
		require.NoError(t, err)

		moved := sampleFinding()
		moved.Location = "app/api.go"
		outcome, err := r.Reconcile(ctx, 12, &moved)
		require.NoError(t, err)
		assert.Equal(t, OutcomeInserted, outcome)
		assert.Len(t, store.docs["tenant-12-findings"], 2)
	})
}
