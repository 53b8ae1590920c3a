package flow

import (
	"context"
	"time"

	"github.com/dshills/flowdag-go/flow/emit"
)

// Engine executes one workflow run from validation to final checkpoint.
//
// The execution sequence:
//  1. Validate the graph (unknown edge references, cycles). A rejected
//     workflow produces zero node results and has no side effects.
//  2. Compute a deterministic topological order.
//  3. For each node in order: emit a running event, resolve its config
//     against the run context in a single interpolation pass, dispatch
//     to the registered executor, capture the outcome, emit a terminal
//     event, write a checkpoint, and merge outputs into the context.
//
// Nodes execute strictly sequentially; for every edge (u -> v), u's
// result is fully recorded and merged before v begins. Node-local
// failures are captured into that node's result and the run continues;
// downstream nodes that needed the missing outputs see empty
// interpolations and degrade or fail on their own terms.
//
// Example:
//
//	registry, err := exec.NewRegistry(exec.Options{})
//	checkpoints := flow.NewCheckpointManager(store.NewMemStore())
//	engine := flow.NewEngine(registry, checkpoints, emit.NewLogEmitter(nil, false), flow.Options{})
//
//	results, err := engine.Execute(ctx, "run-001", workflow)
type Engine struct {
	registry    *Registry
	checkpoints *CheckpointManager
	emitter     emit.Emitter
	metrics     *Metrics
}

// Options configures optional engine behavior.
type Options struct {
	// Metrics receives execution metrics; nil disables collection.
	Metrics *Metrics
}

// NewEngine creates an Engine. The registry is required; checkpoints and
// emitter may be nil to disable persistence and progress reporting.
func NewEngine(registry *Registry, checkpoints *CheckpointManager, emitter emit.Emitter, opts Options) *Engine {
	return &Engine{
		registry:    registry,
		checkpoints: checkpoints,
		emitter:     emitter,
		metrics:     opts.Metrics,
	}
}

// Execute runs the workflow to completion and returns every node's
// result keyed by node ID.
//
// Returns CodeInvalidWorkflow (with an empty result map) when validation
// rejects the graph, and ctx.Err when the run is canceled mid-flight;
// node-local failures are reported inside the results, not as an error.
func (e *Engine) Execute(ctx context.Context, runID string, w *Workflow) (map[string]NodeResult, error) {
	if e.registry == nil {
		return nil, NewError(CodeExecutionFailed, "executor registry is required")
	}
	if w == nil {
		return nil, NewError(CodeInvalidWorkflow, "workflow cannot be nil")
	}

	e.metrics.RunStarted()

	order, err := TopoSort(w)
	if err != nil {
		e.emit(emit.Event{
			RunID:      runID,
			WorkflowID: w.ID,
			Error:      err.Error(),
			Msg:        "run rejected",
		})
		e.metrics.RunFinished("rejected")
		return map[string]NodeResult{}, err
	}

	e.emit(emit.Event{
		RunID:      runID,
		WorkflowID: w.ID,
		Msg:        "run started",
		Meta:       map[string]any{"nodes": len(order)},
	})

	rc := NewRunContext()
	results := make(map[string]NodeResult, len(order))
	failed := 0

	for _, id := range order {
		select {
		case <-ctx.Done():
			e.finish(ctx, runID, w, results, rc, "canceled")
			return results, ctx.Err()
		default:
		}

		node, _ := w.Node(id)
		res := e.executeNode(ctx, runID, w, node, rc)
		results[id] = res
		if res.Status == StatusFailed {
			failed++
		}

		// Cancellation surfaced inside an executor ends the run here;
		// the node's result is already recorded.
		if ctx.Err() != nil {
			e.finish(ctx, runID, w, results, rc, "canceled")
			return results, ctx.Err()
		}

		e.checkpoint(ctx, runID, w, id, "after node "+id+" ("+string(res.Status)+")", results, rc)

		// Outputs become visible to downstream nodes only after the
		// result and checkpoint are recorded.
		if res.Status == StatusSuccess {
			rc.Merge(id, res.Output)
		}
	}

	status := "completed"
	if failed > 0 {
		status = "completed with failures"
	}
	e.finish(ctx, runID, w, results, rc, status)
	return results, nil
}

// executeNode runs a single node through its registered executor and
// captures the outcome; it never returns an error because node failures
// are part of the result.
func (e *Engine) executeNode(ctx context.Context, runID string, w *Workflow, node *Node, rc *RunContext) NodeResult {
	res := NodeResult{
		NodeID:    node.ID,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	e.emit(emit.Event{
		RunID:      runID,
		WorkflowID: w.ID,
		NodeID:     node.ID,
		Status:     string(res.Status),
		Msg:        "node status",
		Meta:       map[string]any{"node_type": string(node.Type)},
	})

	cfg := rc.ResolveConfig(node.Config)

	var output map[string]any
	var err error
	if ex, ok := e.registry.Lookup(node.Type); ok {
		output, err = ex.Execute(ctx, node, cfg)
	} else {
		err = NewError(CodeNodeNotFound, "no executor registered for node type: "+string(node.Type)).WithNode(node.ID)
	}

	res.FinishedAt = time.Now()
	if err != nil {
		res.Status = StatusFailed
		res.Err = err.Error()
		e.metrics.NodeFailed(CodeOf(err))
	} else {
		res.Status = StatusSuccess
		res.Output = output
	}
	e.metrics.NodeExecuted(node.Type, res.Status, res.FinishedAt.Sub(res.StartedAt))

	e.emit(emit.Event{
		RunID:      runID,
		WorkflowID: w.ID,
		NodeID:     node.ID,
		Status:     string(res.Status),
		Output:     res.Output,
		Error:      res.Err,
		Msg:        "node status",
		Meta: map[string]any{
			"node_type":   string(node.Type),
			"duration_ms": res.FinishedAt.Sub(res.StartedAt).Milliseconds(),
		},
	})
	return res
}

// finish writes the final checkpoint and the run-level event.
func (e *Engine) finish(ctx context.Context, runID string, w *Workflow, results map[string]NodeResult, rc *RunContext, status string) {
	e.checkpoint(ctx, runID, w, "", "run "+status, results, rc)
	e.emit(emit.Event{
		RunID:      runID,
		WorkflowID: w.ID,
		Msg:        "run " + status,
		Meta:       map[string]any{"nodes_executed": len(results)},
	})
	outcome := "completed"
	if status == "canceled" {
		outcome = "canceled"
	}
	e.metrics.RunFinished(outcome)
}

// checkpoint appends a snapshot, best-effort: failures are reported
// through the emitter and metrics but never abort the run. A canceled
// context still gets a final snapshot written.
func (e *Engine) checkpoint(ctx context.Context, runID string, w *Workflow, nodeID, message string, results map[string]NodeResult, rc *RunContext) {
	if e.checkpoints == nil {
		return
	}
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	err := e.checkpoints.Append(ctx, w.ID, runID, nodeID, message, results, rc.Snapshot())
	e.metrics.CheckpointWrite(err == nil)
	if err != nil {
		e.emit(emit.Event{
			RunID:      runID,
			WorkflowID: w.ID,
			NodeID:     nodeID,
			Error:      err.Error(),
			Msg:        "checkpoint write failed",
		})
	}
}

func (e *Engine) emit(event emit.Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}
