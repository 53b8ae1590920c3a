package store

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Store.
//
// Designed for tests, development, and short-lived workflows where
// persistence across process restarts is not required. Thread-safe;
// histories grow unbounded for the life of the process.
type MemStore struct {
	mu        sync.RWMutex
	histories map[string][]Checkpoint // workflowID -> checkpoints
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{histories: make(map[string][]Checkpoint)}
}

// Append adds a checkpoint to its workflow's history.
func (m *MemStore) Append(_ context.Context, cp Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories[cp.WorkflowID] = append(m.histories[cp.WorkflowID], cp)
	return nil
}

// Latest returns the highest-version checkpoint for a workflow.
func (m *MemStore) Latest(_ context.Context, workflowID string) (Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.histories[workflowID]
	if len(history) == 0 {
		return Checkpoint{}, ErrNotFound
	}

	latest := history[0]
	for _, cp := range history[1:] {
		if cp.Version > latest.Version {
			latest = cp
		}
	}
	return latest, nil
}

// History returns a workflow's checkpoints sorted by version.
func (m *MemStore) History(_ context.Context, workflowID string) ([]Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.histories[workflowID]
	if len(history) == 0 {
		return nil, ErrNotFound
	}

	out := make([]Checkpoint, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
