package queue

import "sync"

// scopeLocks hands out one mutex per (tenant, tool) scope so reconciliation
// for a scope never overlaps. Locks are created on first use and kept for
// the subscriber's lifetime; the scope cardinality is tenants x three tools,
// small enough that eviction is not worth the bookkeeping.
type scopeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for a scope and returns its release function.
func (s *scopeLocks) lock(scope string) func() {
	s.mu.Lock()
	m, ok := s.locks[scope]
	if !ok {
		m = &sync.Mutex{}
		s.locks[scope] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
