// Package emit provides progress-event reporting for workflow runs.
package emit

// Event is a progress report from a workflow run.
//
// The engine emits one event per node per status transition (running,
// then success or failed), plus a handful of run-level events (run
// started, run completed, run rejected, checkpoint failures). Node-level
// events carry the node's output or error; run-level events leave NodeID
// empty.
type Event struct {
	// RunID identifies the workflow execution that emitted this event.
	RunID string `json:"run_id"`

	// WorkflowID identifies the workflow definition being executed.
	WorkflowID string `json:"workflow_id,omitempty"`

	// NodeID identifies the node, empty for run-level events.
	NodeID string `json:"node_id,omitempty"`

	// Status is the node's status at the time of the event
	// ("running", "success", "failed"), empty for run-level events.
	Status string `json:"status,omitempty"`

	// Output holds the node's output values on a terminal transition.
	Output map[string]any `json:"output,omitempty"`

	// Error is the failure message when Status is "failed".
	Error string `json:"error,omitempty"`

	// Msg is a human-readable description of the event.
	Msg string `json:"msg"`

	// Meta contains additional structured data, e.g. "duration_ms",
	// "node_type", or "checkpoint_version".
	Meta map[string]any `json:"meta,omitempty"`
}

// Emitter receives progress events from workflow execution.
//
// Implementations should be non-blocking, thread-safe (events arrive
// concurrently from independent runs), and resilient: an emitter must
// never panic or fail the run. Backends range from plain log output
// (LogEmitter) to OpenTelemetry spans (OTelEmitter); NullEmitter
// discards everything and BufferedEmitter captures events in memory for
// inspection.
type Emitter interface {
	// Emit delivers one event. Implementations must not block the run
	// and must swallow their own errors.
	Emit(event Event)
}
