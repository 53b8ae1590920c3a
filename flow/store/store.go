// Package store provides snapshot persistence for workflow checkpoints.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a workflow has no checkpoint history.
var ErrNotFound = errors.New("not found")

// Checkpoint is a versioned snapshot of a run's state, written after
// each node completes (success or failure) and once more when the run
// ends. One checkpoint history exists per workflow ID, with versions
// assigned monotonically from 1.
//
// Checkpoints exist for audit, debugging, and manual recovery; the
// engine does not resume from them automatically.
type Checkpoint struct {
	// WorkflowID keys the history this checkpoint belongs to.
	WorkflowID string `json:"workflow_id"`

	// RunID identifies the execution that produced the snapshot.
	RunID string `json:"run_id"`

	// Version is the 1-based position in the workflow's history.
	Version int `json:"version"`

	// NodeID is the node that just completed, empty for the final
	// run-level checkpoint.
	NodeID string `json:"node_id,omitempty"`

	// Message is a human-readable tag for the snapshot.
	Message string `json:"message"`

	// Results holds every node result recorded so far.
	Results map[string]ResultRecord `json:"results"`

	// Context is the run context at snapshot time, keyed by
	// "{node_id}.{output_key}".
	Context map[string]any `json:"context"`

	// CreatedAt is when the snapshot was written.
	CreatedAt time.Time `json:"created_at"`
}

// ResultRecord is the persisted form of a node execution result.
type ResultRecord struct {
	Status string         `json:"status"`
	Output map[string]any `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Store is the snapshot backend behind the checkpoint manager.
//
// Implementations in this package:
//   - MemStore: in-memory maps, for tests and short-lived runs
//   - SQLiteStore: single-file database, zero-setup persistence
//   - MySQLStore: shared relational backend for production
//
// A git-backed implementation would also satisfy this interface; the
// engine only ever appends and reads.
type Store interface {
	// Append writes a new checkpoint to its workflow's history.
	// Versions are assigned by the caller and must be unique per
	// workflow ID.
	Append(ctx context.Context, cp Checkpoint) error

	// Latest returns the highest-version checkpoint for a workflow.
	// Returns ErrNotFound when the workflow has no history.
	Latest(ctx context.Context, workflowID string) (Checkpoint, error)

	// History returns a workflow's checkpoints in version order.
	// Returns ErrNotFound when the workflow has no history.
	History(ctx context.Context, workflowID string) ([]Checkpoint, error)
}
