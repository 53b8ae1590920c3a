package exec

import (
	"context"
	"encoding/json"

	"github.com/dshills/flowdag-go/flow"
)

// LoopExecutor runs loop nodes. Config:
//
//	iterations — explicit iteration count
//	input      — interpolated JSON array; its length wins over the
//	             explicit count when it parses
//
// A malformed or absent input falls back to the explicit count, which
// itself defaults to zero. Output carries iterations, items (when the
// input parsed), and source ("input" or "count").
type LoopExecutor struct{}

// Execute implements flow.Executor.
func (l *LoopExecutor) Execute(_ context.Context, _ *flow.Node, cfg flow.Config) (map[string]any, error) {
	if input := cfg.Get("input"); input != "" {
		var items []any
		if err := json.Unmarshal([]byte(input), &items); err == nil {
			return map[string]any{
				"iterations": len(items),
				"items":      items,
				"source":     "input",
			}, nil
		}
	}

	return map[string]any{
		"iterations": cfg.Int("iterations", 0),
		"source":     "count",
	}, nil
}
