package emit_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/flowdag-go/flow/emit"
)

func TestLogEmitterText(t *testing.T) {
	t.Run("full event", func(t *testing.T) {
		var buf bytes.Buffer
		e := emit.NewLogEmitter(&buf, false)
		e.Emit(emit.Event{
			RunID:      "run-1",
			WorkflowID: "wf-1",
			NodeID:     "fetch",
			Status:     "failed",
			Error:      "boom",
			Msg:        "node status",
			Meta:       map[string]any{"node_type": "shell"},
		})

		line := buf.String()
		for _, want := range []string{
			"[node status]",
			"run=run-1",
			"workflow=wf-1",
			"node=fetch",
			"status=failed",
			`error="boom"`,
			`meta={"node_type":"shell"}`,
		} {
			if !strings.Contains(line, want) {
				t.Errorf("line %q missing %q", line, want)
			}
		}
		if !strings.HasSuffix(line, "\n") {
			t.Error("line not newline terminated")
		}
	})

	t.Run("empty fields are omitted", func(t *testing.T) {
		var buf bytes.Buffer
		e := emit.NewLogEmitter(&buf, false)
		e.Emit(emit.Event{RunID: "run-2", Msg: "run started"})

		line := buf.String()
		for _, absent := range []string{"node=", "status=", "error=", "meta="} {
			if strings.Contains(line, absent) {
				t.Errorf("line %q should not contain %q", line, absent)
			}
		}
	})
}

func TestLogEmitterJSON(t *testing.T) {
	var buf bytes.Buffer
	e := emit.NewLogEmitter(&buf, true)
	e.Emit(emit.Event{
		RunID:  "run-3",
		NodeID: "check",
		Status: "success",
		Msg:    "node status",
		Output: map[string]any{"passed": true},
	})

	var decoded emit.Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.RunID != "run-3" || decoded.NodeID != "check" || decoded.Status != "success" {
		t.Errorf("decoded event = %+v", decoded)
	}
	if decoded.Output["passed"] != true {
		t.Errorf("decoded output = %v", decoded.Output)
	}
}
