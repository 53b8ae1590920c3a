package flow

import (
	"context"
	"sort"
	"sync"
)

// Executor performs the work of one node type.
//
// Executors receive the node and a Config view whose values have already
// been through the interpolation pass; they must read settings only
// through cfg. The returned output map is merged into the run context
// under the node's namespace. A returned error marks the node Failed
// without halting the rest of the run.
type Executor interface {
	Execute(ctx context.Context, node *Node, cfg Config) (map[string]any, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, node *Node, cfg Config) (map[string]any, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, node *Node, cfg Config) (map[string]any, error) {
	return f(ctx, node, cfg)
}

// Registry maps node types to executor implementations.
//
// Dispatch is a plain lookup; adding a node kind means registering a new
// implementation, not growing a switch statement. A node whose type has
// no registration fails with CodeNodeNotFound at execution time.
type Registry struct {
	mu        sync.RWMutex
	executors map[NodeType]Executor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[NodeType]Executor)}
}

// Register binds an executor to a node type.
//
// Returns an error if the type is empty, the executor is nil, or the
// type is already registered.
func (r *Registry) Register(t NodeType, ex Executor) error {
	if t == "" {
		return NewError(CodeExecutionFailed, "node type cannot be empty")
	}
	if ex == nil {
		return NewError(CodeExecutionFailed, "executor cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[t]; exists {
		return NewError(CodeExecutionFailed, "duplicate executor for node type: "+string(t))
	}
	r.executors[t] = ex
	return nil
}

// Lookup returns the executor for a node type.
func (r *Registry) Lookup(t NodeType) (Executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.executors[t]
	return ex, ok
}

// Types returns the registered node types, sorted.
func (r *Registry) Types() []NodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NodeType, 0, len(r.executors))
	for t := range r.executors {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
