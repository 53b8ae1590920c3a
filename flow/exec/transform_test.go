package exec_test

import (
	"context"
	"testing"

	"github.com/dshills/flowdag-go/flow"
	"github.com/dshills/flowdag-go/flow/exec"
)

func TestTransformExecutor(t *testing.T) {
	node := &flow.Node{ID: "tx", Type: flow.NodeTransform}
	ex := &exec.TransformExecutor{}

	run := func(t *testing.T, raw map[string]string, seed map[string]any) map[string]any {
		t.Helper()
		out, err := ex.Execute(context.Background(), node, resolve(t, raw, seed))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		return out
	}

	t.Run("uppercase", func(t *testing.T) {
		out := run(t, map[string]string{"operation": "uppercase", "input": "hello"}, nil)
		if out["result"] != "HELLO" {
			t.Errorf("result = %v", out["result"])
		}
	})

	t.Run("lowercase", func(t *testing.T) {
		out := run(t, map[string]string{"operation": "lowercase", "input": "HeLLo"}, nil)
		if out["result"] != "hello" {
			t.Errorf("result = %v", out["result"])
		}
	})

	t.Run("trim", func(t *testing.T) {
		out := run(t, map[string]string{"operation": "trim", "input": "  spaced  "}, nil)
		if out["result"] != "spaced" {
			t.Errorf("result = %v", out["result"])
		}
	})

	t.Run("json_parse", func(t *testing.T) {
		out := run(t, map[string]string{"operation": "json_parse", "input": `{"n": 1}`}, nil)
		parsed, ok := out["parsed"].(map[string]any)
		if !ok {
			t.Fatalf("parsed has type %T", out["parsed"])
		}
		if parsed["n"] != float64(1) {
			t.Errorf("parsed = %v", parsed)
		}
	})

	t.Run("malformed json_parse is EXECUTION_FAILED", func(t *testing.T) {
		_, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"operation": "json_parse", "input": "{broken"}, nil))
		if flow.CodeOf(err) != flow.CodeExecutionFailed {
			t.Errorf("code = %s, want EXECUTION_FAILED", flow.CodeOf(err))
		}
	})

	t.Run("unknown operation passes input through", func(t *testing.T) {
		out := run(t, map[string]string{"operation": "reverse", "input": "same"}, nil)
		if out["result"] != "same" {
			t.Errorf("result = %v", out["result"])
		}
	})

	t.Run("input placeholders are interpolated", func(t *testing.T) {
		out := run(t,
			map[string]string{"operation": "uppercase", "input": "${fetch.word}"},
			map[string]any{"fetch.word": "shout"})
		if out["result"] != "SHOUT" {
			t.Errorf("result = %v", out["result"])
		}
	})
}
