package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/flowdag-go/flow"
)

// LogExecutor runs log nodes. Config:
//
//	message — the log line (interpolated)
//	level   — debug, info (default), warn, or error
//
// Log nodes never fail; a write error is swallowed and the node still
// reports what it logged. Output carries message and level.
type LogExecutor struct {
	Writer io.Writer
}

// Execute implements flow.Executor.
func (l *LogExecutor) Execute(_ context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	message := cfg.Get("message", "msg")
	level := normalizeLevel(cfg.Get("level"))

	w := l.Writer
	if w == nil {
		w = os.Stdout
	}
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", strings.ToUpper(level), node.ID, message)

	return map[string]any{
		"message": message,
		"level":   level,
	}, nil
}

func normalizeLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug", "warn", "error":
		return strings.ToLower(level)
	default:
		return "info"
	}
}
