package exec

import (
	"context"

	"github.com/dshills/flowdag-go/flow"
)

// ConditionalExecutor runs conditional nodes. Config:
//
//	condition — expression evaluated against the run context
//
// Conditional nodes never fail; downstream nodes read the verdict from
// the context. Output carries result (bool) and branch ("true" or
// "false") for string interpolation.
type ConditionalExecutor struct{}

// Execute implements flow.Executor.
func (c *ConditionalExecutor) Execute(_ context.Context, _ *flow.Node, cfg flow.Config) (map[string]any, error) {
	condition := cfg.Get("condition")
	result := cfg.EvalCondition(condition)

	branch := "false"
	if result {
		branch = "true"
	}
	return map[string]any{
		"result":    result,
		"branch":    branch,
		"condition": condition,
	}, nil
}
