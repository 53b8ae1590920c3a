package flow

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Manager owns concurrent execution of multiple workflow runs.
//
// Each Start spawns one goroutine that validates, schedules, and
// executes the workflow sequentially; the run registers itself under a
// fresh run ID for the duration and is removed on completion or cancel.
// Runs are independent: each owns its run context and checkpoint
// writes, so any number may execute concurrently. External resources
// they share (databases, files, provider quotas) are not arbitrated
// here and must tolerate interleaved access.
//
// Cancellation is coarse-grained: Cancel aborts the whole run
// immediately, mid-node if one is in flight, and does not undo side
// effects already performed.
type Manager struct {
	engine *Engine

	mu   sync.RWMutex
	runs map[string]*run
}

type run struct {
	workflowID string
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewManager creates a Manager over an engine.
func NewManager(engine *Engine) *Manager {
	return &Manager{
		engine: engine,
		runs:   make(map[string]*run),
	}
}

// Start launches an asynchronous run of the workflow and returns its
// run ID. The parent context bounds the run's lifetime; Cancel aborts
// it earlier.
func (m *Manager) Start(ctx context.Context, w *Workflow) (string, error) {
	if m.engine == nil {
		return "", NewError(CodeExecutionFailed, "engine is required")
	}
	if w == nil {
		return "", NewError(CodeInvalidWorkflow, "workflow cannot be nil")
	}

	runID := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		workflowID: w.ID,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	m.mu.Lock()
	m.runs[runID] = r
	m.mu.Unlock()

	go func() {
		defer close(r.done)
		defer cancel()
		defer m.remove(runID)
		_, _ = m.engine.Execute(runCtx, runID, w)
	}()

	return runID, nil
}

// IsRunning reports whether a run is still registered.
func (m *Manager) IsRunning(runID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.runs[runID]
	return ok
}

// Running returns the IDs of all registered runs.
func (m *Manager) Running() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.runs))
	for id := range m.runs {
		out = append(out, id)
	}
	return out
}

// Cancel aborts a run and removes it from the registry. Returns false
// when the run ID is unknown (never started, finished, or already
// canceled).
func (m *Manager) Cancel(runID string) bool {
	m.mu.Lock()
	r, ok := m.runs[runID]
	if ok {
		delete(m.runs, runID)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	r.cancel()
	return true
}

// Wait blocks until the run finishes or ctx expires. Waiting on an
// unknown run ID returns immediately: the run has already completed.
func (m *Manager) Wait(ctx context.Context, runID string) error {
	m.mu.RLock()
	r, ok := m.runs[runID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) remove(runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, runID)
}
