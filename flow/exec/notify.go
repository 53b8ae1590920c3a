package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dshills/flowdag-go/flow"
)

// Notifier delivers user-facing notifications. Implementations must be
// safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// WriterNotifier is the default Notifier: it writes notifications to
// an io.Writer, one per line.
type WriterNotifier struct {
	Writer io.Writer
	mu     sync.Mutex
}

// Notify implements Notifier.
func (n *WriterNotifier) Notify(_ context.Context, title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	w := n.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintf(w, "NOTIFY %s: %s\n", title, message)
	return err
}

// NotifyExecutor runs notify nodes. Config:
//
//	title   — notification title (interpolated)
//	message — notification body (interpolated)
//
// Notify nodes never fail: delivery errors are reported in the output
// as delivered:false rather than failing the node. Output carries
// title, message, and delivered.
type NotifyExecutor struct {
	Notifier Notifier
}

// Execute implements flow.Executor.
func (n *NotifyExecutor) Execute(ctx context.Context, _ *flow.Node, cfg flow.Config) (map[string]any, error) {
	title := cfg.Get("title")
	message := cfg.Get("message", "msg")

	delivered := false
	if n.Notifier != nil {
		delivered = n.Notifier.Notify(ctx, title, message) == nil
	}

	return map[string]any{
		"title":     title,
		"message":   message,
		"delivered": delivered,
	}, nil
}
