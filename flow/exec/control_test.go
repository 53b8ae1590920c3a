package exec_test

import (
	"context"
	"testing"

	"github.com/dshills/flowdag-go/flow"
	"github.com/dshills/flowdag-go/flow/exec"
)

func TestFilterExecutor(t *testing.T) {
	node := &flow.Node{ID: "gate", Type: flow.NodeFilter}
	ex := &exec.FilterExecutor{}

	cases := []struct {
		name      string
		condition string
		context   map[string]any
		want      bool
	}{
		{"true literal passes", "true", nil, true},
		{"false literal fails", "false", nil, false},
		{"zero fails", "0", nil, false},
		{"empty condition fails", "", nil, false},
		{"numeric comparison", "5 > 3", nil, true},
		{"context comparison", "check.count >= 10", map[string]any{"check.count": 12}, true},
		{"context comparison fails", "check.count >= 10", map[string]any{"check.count": 2}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ex.Execute(context.Background(), node,
				resolve(t, map[string]string{"condition": tc.condition}, tc.context))
			if err != nil {
				t.Fatalf("filter must never fail, got %v", err)
			}
			if out["passed"] != tc.want {
				t.Errorf("passed = %v, want %v", out["passed"], tc.want)
			}
		})
	}
}

func TestConditionalExecutor(t *testing.T) {
	node := &flow.Node{ID: "branch", Type: flow.NodeConditional}
	ex := &exec.ConditionalExecutor{}

	t.Run("true branch", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"condition": "10 > 1"}, nil))
		if err != nil {
			t.Fatalf("conditional must never fail, got %v", err)
		}
		if out["result"] != true || out["branch"] != "true" {
			t.Errorf("output = %v", out)
		}
	})

	t.Run("false branch", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"condition": "1 > 10"}, nil))
		if err != nil {
			t.Fatalf("conditional must never fail, got %v", err)
		}
		if out["result"] != false || out["branch"] != "false" {
			t.Errorf("output = %v", out)
		}
	})

	t.Run("malformed condition takes the false branch", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"condition": ""}, nil))
		if err != nil {
			t.Fatalf("conditional must never fail, got %v", err)
		}
		if out["branch"] != "false" {
			t.Errorf("branch = %v", out["branch"])
		}
	})
}

func TestLoopExecutor(t *testing.T) {
	node := &flow.Node{ID: "repeat", Type: flow.NodeLoop}
	ex := &exec.LoopExecutor{}

	t.Run("array input wins", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node, resolve(t, map[string]string{
			"iterations": "99",
			"input":      `["a", "b", "c"]`,
		}, nil))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["iterations"] != 3 || out["source"] != "input" {
			t.Errorf("output = %v", out)
		}
		if items, ok := out["items"].([]any); !ok || len(items) != 3 {
			t.Errorf("items = %v", out["items"])
		}
	})

	t.Run("malformed input falls back to the explicit count", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node, resolve(t, map[string]string{
			"iterations": "4",
			"input":      "{not an array",
		}, nil))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["iterations"] != 4 || out["source"] != "count" {
			t.Errorf("output = %v", out)
		}
	})

	t.Run("no config yields zero iterations", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node, resolve(t, nil, nil))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["iterations"] != 0 {
			t.Errorf("iterations = %v", out["iterations"])
		}
	})

	t.Run("interpolated input array", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node, resolve(t,
			map[string]string{"input": "${list.items}"},
			map[string]any{"list.items": []any{"x", "y"}}))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["iterations"] != 2 {
			t.Errorf("iterations = %v", out["iterations"])
		}
	})
}

func TestAggregatorExecutor(t *testing.T) {
	node := &flow.Node{ID: "agg", Type: flow.NodeAggregator}
	ex := &exec.AggregatorExecutor{}

	seed := map[string]any{
		"b.value":  2,
		"a.value":  1,
		"agg.prev": "excluded",
	}

	out, err := ex.Execute(context.Background(), node, resolve(t, nil, seed))
	if err != nil {
		t.Fatalf("aggregator must never fail, got %v", err)
	}
	if out["count"] != 2 {
		t.Fatalf("count = %v", out["count"])
	}

	entries, ok := out["entries"].([]map[string]any)
	if !ok {
		t.Fatalf("entries has type %T", out["entries"])
	}
	// Entries are key sorted, and the node's own namespace is excluded.
	if entries[0]["key"] != "a.value" || entries[1]["key"] != "b.value" {
		t.Errorf("entries = %v", entries)
	}
	if entries[0]["value"] != 1 {
		t.Errorf("first value = %v", entries[0]["value"])
	}
}

func TestMergeExecutor(t *testing.T) {
	node := &flow.Node{ID: "join", Type: flow.NodeMerge}
	ex := &exec.MergeExecutor{}

	t.Run("collapses foreign entries", func(t *testing.T) {
		seed := map[string]any{
			"x.out":     "left",
			"y.out":     "right",
			"join.prev": "excluded",
		}
		out, err := ex.Execute(context.Background(), node, resolve(t, nil, seed))
		if err != nil {
			t.Fatalf("merge must never fail, got %v", err)
		}
		merged, ok := out["merged"].(map[string]any)
		if !ok {
			t.Fatalf("merged has type %T", out["merged"])
		}
		if len(merged) != 2 || merged["x.out"] != "left" || merged["y.out"] != "right" {
			t.Errorf("merged = %v", merged)
		}
		if _, ok := merged["join.prev"]; ok {
			t.Error("merge included its own namespace")
		}
	})

	t.Run("empty context merges to empty object", func(t *testing.T) {
		out, err := ex.Execute(context.Background(), node, resolve(t, nil, nil))
		if err != nil {
			t.Fatalf("merge must never fail, got %v", err)
		}
		if out["count"] != 0 {
			t.Errorf("count = %v", out["count"])
		}
	})
}
