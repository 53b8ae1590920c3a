package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dshills/flowdag-go/flow/store"
)

// CheckpointManager versions run state into a snapshot store.
//
// After each node completes (success or failure) the engine appends a
// new checkpoint tagged with a human-readable message; a final one is
// appended when the run ends. Versions are monotonic per workflow ID
// and continue from whatever history the store already holds, so
// repeated runs of the same workflow share one audit trail.
//
// Checkpointing is best-effort by contract: the engine logs append
// failures through its emitter and carries on.
type CheckpointManager struct {
	store store.Store

	mu       sync.Mutex
	versions map[string]int // workflowID -> last assigned version
}

// NewCheckpointManager creates a manager over the given store.
func NewCheckpointManager(st store.Store) *CheckpointManager {
	return &CheckpointManager{
		store:    st,
		versions: make(map[string]int),
	}
}

// Append writes the next versioned snapshot for a workflow.
func (m *CheckpointManager) Append(ctx context.Context, workflowID, runID, nodeID, message string,
	results map[string]NodeResult, snapshot map[string]any) error {

	version, err := m.nextVersion(ctx, workflowID)
	if err != nil {
		return err
	}

	records := make(map[string]store.ResultRecord, len(results))
	for id, res := range results {
		records[id] = store.ResultRecord{
			Status: string(res.Status),
			Output: res.Output,
			Error:  res.Err,
		}
	}

	return m.store.Append(ctx, store.Checkpoint{
		WorkflowID: workflowID,
		RunID:      runID,
		Version:    version,
		NodeID:     nodeID,
		Message:    message,
		Results:    records,
		Context:    snapshot,
		CreatedAt:  time.Now(),
	})
}

// History returns a workflow's checkpoints in version order.
func (m *CheckpointManager) History(ctx context.Context, workflowID string) ([]store.Checkpoint, error) {
	return m.store.History(ctx, workflowID)
}

// Latest returns a workflow's most recent checkpoint.
func (m *CheckpointManager) Latest(ctx context.Context, workflowID string) (store.Checkpoint, error) {
	return m.store.Latest(ctx, workflowID)
}

// nextVersion reserves the next version number for a workflow, seeding
// the counter from the store so histories continue across restarts.
func (m *CheckpointManager) nextVersion(ctx context.Context, workflowID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.versions[workflowID]; ok {
		m.versions[workflowID] = last + 1
		return last + 1, nil
	}

	latest, err := m.store.Latest(ctx, workflowID)
	switch {
	case err == nil:
		m.versions[workflowID] = latest.Version + 1
	case errors.Is(err, store.ErrNotFound):
		m.versions[workflowID] = 1
	default:
		return 0, err
	}
	return m.versions[workflowID], nil
}
