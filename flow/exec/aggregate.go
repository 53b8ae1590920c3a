package exec

import (
	"context"
	"sort"
	"strings"

	"github.com/dshills/flowdag-go/flow"
)

// AggregatorExecutor runs aggregator nodes: it collects every context
// entry written by other nodes into a key-sorted list. Its own prior
// outputs are excluded so a re-run cannot aggregate itself. Never
// fails. Output carries entries ([]{key, value}) and count.
type AggregatorExecutor struct{}

// Execute implements flow.Executor.
func (a *AggregatorExecutor) Execute(_ context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	keys := foreignKeys(node.ID, cfg)

	entries := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		v, _ := cfg.ContextValue(k)
		entries = append(entries, map[string]any{"key": k, "value": v})
	}
	return map[string]any{
		"entries": entries,
		"count":   len(entries),
	}, nil
}

// MergeExecutor runs merge nodes: it collapses every foreign context
// entry into one object keyed by qualified name. Never fails. Output
// carries merged and count.
type MergeExecutor struct{}

// Execute implements flow.Executor.
func (m *MergeExecutor) Execute(_ context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	merged := make(map[string]any)
	for _, k := range foreignKeys(node.ID, cfg) {
		v, _ := cfg.ContextValue(k)
		merged[k] = v
	}
	return map[string]any{
		"merged": merged,
		"count":  len(merged),
	}, nil
}

// foreignKeys returns the sorted context keys not namespaced to nodeID.
func foreignKeys(nodeID string, cfg flow.Config) []string {
	own := nodeID + "."
	keys := make([]string, 0)
	for k := range cfg.ContextEntries() {
		if !strings.HasPrefix(k, own) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
