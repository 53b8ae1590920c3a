package flow

import "time"

// Status is a node's execution state within a run.
//
// Each node transitions Pending -> Running -> {Success, Failed} exactly
// once per run; a result is never re-entered.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// NodeResult records the outcome of one node execution.
type NodeResult struct {
	// NodeID is the node this result belongs to.
	NodeID string `json:"node_id"`

	// Status is the current execution state.
	Status Status `json:"status"`

	// Output holds the executor's typed output values.
	// Keys are merged into the run context as "{node_id}.{key}".
	Output map[string]any `json:"output,omitempty"`

	// Err is the failure message when Status is StatusFailed.
	Err string `json:"error,omitempty"`

	// StartedAt is when the node entered StatusRunning.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the node reached a terminal status.
	FinishedAt time.Time `json:"finished_at,omitempty"`
}
