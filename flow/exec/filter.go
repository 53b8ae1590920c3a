package exec

import (
	"context"

	"github.com/dshills/flowdag-go/flow"
)

// FilterExecutor runs filter nodes. Config:
//
//	condition — expression evaluated against the run context
//
// Filter nodes never fail: an empty, malformed, or falsy condition
// simply reports passed:false. Output carries passed and condition.
type FilterExecutor struct{}

// Execute implements flow.Executor.
func (f *FilterExecutor) Execute(_ context.Context, _ *flow.Node, cfg flow.Config) (map[string]any, error) {
	condition := cfg.Get("condition")
	return map[string]any{
		"passed":    cfg.EvalCondition(condition),
		"condition": condition,
	}, nil
}
