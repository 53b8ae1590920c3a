// Package flow implements a workflow DAG execution engine.
//
// A Workflow is a set of typed Nodes connected by dependency Edges. The
// Engine validates the graph, computes a deterministic topological
// order, and dispatches each node to a type-specific Executor looked up
// in a Registry. Node outputs accumulate in a namespaced RunContext and
// feed downstream nodes through ${node.key} interpolation; Conditional
// and Filter nodes branch on a small expression language evaluated by
// EvalCondition. After every node a CheckpointManager appends a
// versioned snapshot for audit and manual recovery, and an emit.Emitter
// reports per-node status transitions.
//
// The Manager runs many workflows concurrently, one goroutine per run,
// with coarse-grained cancellation:
//
//	registry, err := exec.NewRegistry(exec.Options{})
//	checkpoints := flow.NewCheckpointManager(store.NewMemStore())
//	engine := flow.NewEngine(registry, checkpoints, emit.NewLogEmitter(nil, false), flow.Options{})
//	manager := flow.NewManager(engine)
//
//	runID, err := manager.Start(ctx, workflow)
//	manager.IsRunning(runID)
//	manager.Cancel(runID)
package flow
