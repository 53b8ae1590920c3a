package exec

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dshills/flowdag-go/flow"
)

// TransformExecutor runs transform nodes. Config:
//
//	operation — uppercase, lowercase, trim, or json_parse
//	input     — the text to transform (interpolated)
//
// An unrecognized operation passes input through unchanged. json_parse
// decodes input and returns the value under parsed; malformed JSON is
// EXECUTION_FAILED.
type TransformExecutor struct{}

// Execute implements flow.Executor.
func (t *TransformExecutor) Execute(_ context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	input := cfg.Get("input")
	operation := strings.ToLower(cfg.Get("operation", "op"))

	switch operation {
	case "uppercase":
		return transformed(operation, strings.ToUpper(input)), nil
	case "lowercase":
		return transformed(operation, strings.ToLower(input)), nil
	case "trim":
		return transformed(operation, strings.TrimSpace(input)), nil
	case "json_parse":
		var parsed any
		if err := json.Unmarshal([]byte(input), &parsed); err != nil {
			return nil, flow.NewError(flow.CodeExecutionFailed, "invalid JSON input").WithNode(node.ID).WithCause(err)
		}
		return map[string]any{
			"operation": operation,
			"parsed":    parsed,
		}, nil
	default:
		// Unknown operations are a pass-through, not a failure.
		return transformed(operation, input), nil
	}
}

func transformed(operation, result string) map[string]any {
	return map[string]any{
		"operation": operation,
		"result":    result,
	}
}
