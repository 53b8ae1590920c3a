package flow_test

import (
	"testing"

	"github.com/dshills/flowdag-go/flow"
)

func TestWorkflowAddNode(t *testing.T) {
	t.Run("rejects nil node", func(t *testing.T) {
		w := flow.NewWorkflow("wf", "test")
		if err := w.AddNode(nil); err == nil {
			t.Fatal("expected error for nil node")
		}
	})

	t.Run("rejects empty node ID", func(t *testing.T) {
		w := flow.NewWorkflow("wf", "test")
		err := w.AddNode(&flow.Node{Type: flow.NodeLog})
		if err == nil {
			t.Fatal("expected error for empty node ID")
		}
		if flow.CodeOf(err) != flow.CodeInvalidWorkflow {
			t.Errorf("expected INVALID_WORKFLOW, got %s", flow.CodeOf(err))
		}
	})

	t.Run("rejects duplicate node ID", func(t *testing.T) {
		w := flow.NewWorkflow("wf", "test")
		if err := w.AddNode(&flow.Node{ID: "a", Type: flow.NodeLog}); err != nil {
			t.Fatalf("first AddNode failed: %v", err)
		}
		if err := w.AddNode(&flow.Node{ID: "a", Type: flow.NodeShell}); err == nil {
			t.Fatal("expected error for duplicate node ID")
		}
	})

	t.Run("preserves declaration order", func(t *testing.T) {
		w := flow.NewWorkflow("wf", "test")
		ids := []string{"c", "a", "b"}
		for _, id := range ids {
			if err := w.AddNode(&flow.Node{ID: id, Type: flow.NodeLog}); err != nil {
				t.Fatalf("AddNode(%s) failed: %v", id, err)
			}
		}
		nodes := w.Nodes()
		if len(nodes) != len(ids) {
			t.Fatalf("expected %d nodes, got %d", len(ids), len(nodes))
		}
		for i, n := range nodes {
			if n.ID != ids[i] {
				t.Errorf("position %d: expected %s, got %s", i, ids[i], n.ID)
			}
		}
	})
}

func TestWorkflowLookup(t *testing.T) {
	w := flow.NewWorkflow("wf", "test")
	if err := w.AddNode(&flow.Node{ID: "a", Type: flow.NodeShell, Label: "first"}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	t.Run("finds existing node", func(t *testing.T) {
		n, ok := w.Node("a")
		if !ok {
			t.Fatal("expected node a to exist")
		}
		if n.Label != "first" {
			t.Errorf("expected label %q, got %q", "first", n.Label)
		}
	})

	t.Run("missing node reports not found", func(t *testing.T) {
		if _, ok := w.Node("missing"); ok {
			t.Error("expected missing node to report not found")
		}
	})
}

func TestWorkflowEdges(t *testing.T) {
	w := flow.NewWorkflow("wf", "test")
	w.AddEdge("a", "b")
	w.AddEdge("b", "c")

	edges := w.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0] != (flow.Edge{Source: "a", Target: "b"}) {
		t.Errorf("unexpected first edge: %+v", edges[0])
	}

	// The returned slice is a copy; mutating it must not affect the workflow.
	edges[0].Source = "mutated"
	if w.Edges()[0].Source != "a" {
		t.Error("Edges() exposed internal state")
	}
}
