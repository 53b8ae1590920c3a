package exec_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/flowdag-go/flow"
	"github.com/dshills/flowdag-go/flow/exec"
)

func TestLogExecutor(t *testing.T) {
	node := &flow.Node{ID: "say", Type: flow.NodeLog}

	t.Run("writes a leveled line", func(t *testing.T) {
		var buf bytes.Buffer
		ex := &exec.LogExecutor{Writer: &buf}

		out, err := ex.Execute(context.Background(), node, resolve(t, map[string]string{
			"message": "all done",
			"level":   "warn",
		}, nil))
		if err != nil {
			t.Fatalf("log must never fail, got %v", err)
		}
		if out["message"] != "all done" || out["level"] != "warn" {
			t.Errorf("output = %v", out)
		}
		line := buf.String()
		if !strings.Contains(line, "[WARN]") || !strings.Contains(line, "all done") {
			t.Errorf("line = %q", line)
		}
	})

	t.Run("level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		ex := &exec.LogExecutor{Writer: &buf}
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"message": "hi", "level": "shouting"}, nil))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["level"] != "info" {
			t.Errorf("level = %v", out["level"])
		}
	})

	t.Run("message placeholders are interpolated", func(t *testing.T) {
		var buf bytes.Buffer
		ex := &exec.LogExecutor{Writer: &buf}
		_, err := ex.Execute(context.Background(), node, resolve(t,
			map[string]string{"message": "total is ${calc.total}"},
			map[string]any{"calc.total": 42}))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if !strings.Contains(buf.String(), "total is 42") {
			t.Errorf("line = %q", buf.String())
		}
	})
}

type fakeNotifier struct {
	title   string
	message string
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, title, message string) error {
	f.title = title
	f.message = message
	return f.err
}

func TestNotifyExecutor(t *testing.T) {
	node := &flow.Node{ID: "alert", Type: flow.NodeNotify}

	t.Run("delivers title and message", func(t *testing.T) {
		n := &fakeNotifier{}
		ex := &exec.NotifyExecutor{Notifier: n}

		out, err := ex.Execute(context.Background(), node, resolve(t, map[string]string{
			"title":   "Run finished",
			"message": "2 nodes succeeded",
		}, nil))
		if err != nil {
			t.Fatalf("notify must never fail, got %v", err)
		}
		if n.title != "Run finished" || n.message != "2 nodes succeeded" {
			t.Errorf("notifier got %q / %q", n.title, n.message)
		}
		if out["delivered"] != true {
			t.Errorf("delivered = %v", out["delivered"])
		}
	})

	t.Run("delivery failure does not fail the node", func(t *testing.T) {
		ex := &exec.NotifyExecutor{Notifier: &fakeNotifier{err: errors.New("gateway down")}}
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"title": "t", "message": "m"}, nil))
		if err != nil {
			t.Fatalf("notify must never fail, got %v", err)
		}
		if out["delivered"] != false {
			t.Errorf("delivered = %v", out["delivered"])
		}
	})
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &exec.WriterNotifier{Writer: &buf}
	if err := n.Notify(context.Background(), "Title", "Body"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if got := buf.String(); got != "NOTIFY Title: Body\n" {
		t.Errorf("output = %q", got)
	}
}
