package emit_test

import (
	"sync"
	"testing"

	"github.com/dshills/flowdag-go/flow/emit"
)

func TestBufferedEmitterHistory(t *testing.T) {
	b := emit.NewBufferedEmitter()
	b.Emit(emit.Event{RunID: "run-1", NodeID: "a", Status: "running", Msg: "node status"})
	b.Emit(emit.Event{RunID: "run-1", NodeID: "a", Status: "success", Msg: "node status"})
	b.Emit(emit.Event{RunID: "run-1", NodeID: "b", Status: "failed", Msg: "node status"})
	b.Emit(emit.Event{RunID: "run-1", Msg: "run completed"})
	b.Emit(emit.Event{RunID: "run-2", NodeID: "a", Status: "running", Msg: "node status"})

	t.Run("history is per run in emission order", func(t *testing.T) {
		events := b.History("run-1")
		if len(events) != 4 {
			t.Fatalf("expected 4 events, got %d", len(events))
		}
		if events[0].Status != "running" || events[1].Status != "success" {
			t.Errorf("events out of order: %+v", events[:2])
		}
		if len(b.History("run-2")) != 1 {
			t.Errorf("run-2 history = %d events", len(b.History("run-2")))
		}
		if len(b.History("unknown")) != 0 {
			t.Error("unknown run should have empty history")
		}
	})

	t.Run("filter fields combine with AND", func(t *testing.T) {
		got := b.HistoryWithFilter("run-1", emit.HistoryFilter{NodeID: "a", Status: "success"})
		if len(got) != 1 {
			t.Fatalf("expected 1 event, got %d", len(got))
		}
		if got[0].NodeID != "a" || got[0].Status != "success" {
			t.Errorf("wrong event: %+v", got[0])
		}

		if got := b.HistoryWithFilter("run-1", emit.HistoryFilter{Msg: "run completed"}); len(got) != 1 {
			t.Errorf("msg filter matched %d events", len(got))
		}
		if got := b.HistoryWithFilter("run-1", emit.HistoryFilter{NodeID: "a", Status: "failed"}); len(got) != 0 {
			t.Errorf("impossible filter matched %d events", len(got))
		}
	})

	t.Run("clear one run", func(t *testing.T) {
		b.Clear("run-1")
		if len(b.History("run-1")) != 0 {
			t.Error("run-1 history survived Clear")
		}
		if len(b.History("run-2")) != 1 {
			t.Error("Clear of run-1 removed run-2 history")
		}
	})

	t.Run("clear all runs", func(t *testing.T) {
		b.Clear("")
		if len(b.History("run-2")) != 0 {
			t.Error("history survived Clear all")
		}
	})
}

func TestBufferedEmitterConcurrent(t *testing.T) {
	b := emit.NewBufferedEmitter()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Emit(emit.Event{RunID: "shared", Msg: "node status"})
			_ = b.History("shared")
		}()
	}
	wg.Wait()

	if got := len(b.History("shared")); got != n {
		t.Errorf("expected %d events, got %d", n, got)
	}
}
