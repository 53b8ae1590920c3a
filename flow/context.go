package flow

import (
	"encoding/json"
	"regexp"
	"strconv"
	"sync"
)

// placeholderPattern matches ${node_id.output_key} references in config values.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+)\}`)

// RunContext is the accumulated, namespaced store of node outputs for one
// execution. Keys are qualified as "{node_id}.{output_key}", so entries
// from different nodes can never collide.
//
// The context is created empty at run start, grows monotonically (entries
// are never deleted), and is discarded when the run ends; only checkpoints
// persist it. It is a single shared mapping for the whole run: any node
// may read the outputs of any previously-executed node, not only its
// direct parents.
type RunContext struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewRunContext creates an empty run context.
func NewRunContext() *RunContext {
	return &RunContext{values: make(map[string]any)}
}

// Set stores a single output value under "{nodeID}.{key}".
func (rc *RunContext) Set(nodeID, key string, value any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.values[nodeID+"."+key] = value
}

// Merge stores every entry of a node's output map under the node's namespace.
func (rc *RunContext) Merge(nodeID string, output map[string]any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for k, v := range output {
		rc.values[nodeID+"."+k] = v
	}
}

// Get retrieves a value by its qualified "{node_id}.{key}" form.
func (rc *RunContext) Get(qualified string) (any, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	v, ok := rc.values[qualified]
	return v, ok
}

// Snapshot returns a copy of all entries accumulated so far.
func (rc *RunContext) Snapshot() map[string]any {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	out := make(map[string]any, len(rc.values))
	for k, v := range rc.values {
		out[k] = v
	}
	return out
}

// Interpolate substitutes every ${node.key} placeholder in s with the
// stringified context value. A reference to an absent key (upstream node
// did not produce it, or has not run yet) yields an empty string rather
// than an error; the node then proceeds with best-effort data and may
// itself fail if the resulting config is unusable. A value with no
// placeholders is returned unchanged.
func (rc *RunContext) Interpolate(s string) string {
	if s == "" {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := match[2 : len(match)-1]
		if v, ok := rc.Get(key); ok {
			return stringify(v)
		}
		return ""
	})
}

// ResolveConfig runs a node's raw config through a single interpolation
// pass and returns a typed view over the result, together with a read-only
// snapshot of the context for the few executors whose job is the context
// itself (Conditional, Filter, Aggregator, Merge).
func (rc *RunContext) ResolveConfig(raw map[string]string) Config {
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[k] = rc.Interpolate(v)
	}
	return Config{values: values, snapshot: rc.Snapshot()}
}

// Config is the interpolated view of a node's configuration.
//
// Executors read all settings through Get/Require instead of touching the
// raw node config or the run context, so interpolation and required-key
// checking happen in one place.
type Config struct {
	values   map[string]string
	snapshot map[string]any
}

// Get returns the first non-empty value among the given keys (keys act as
// aliases, e.g. "cmd"/"command"). Returns "" when none is set.
func (c Config) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := c.values[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Require is Get with a CodeMissingConfig error if every alias is empty.
func (c Config) Require(keys ...string) (string, error) {
	if v := c.Get(keys...); v != "" {
		return v, nil
	}
	return "", NewError(CodeMissingConfig, "required config key "+strconv.Quote(keys[0])+" is missing or empty")
}

// Int parses the named key as an integer, returning def when the key is
// absent or malformed.
func (c Config) Int(key string, def int) int {
	v := c.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ContextValue looks up a qualified key in the run-context snapshot taken
// when the config was resolved.
func (c Config) ContextValue(qualified string) (any, bool) {
	v, ok := c.snapshot[qualified]
	return v, ok
}

// ContextEntries returns a copy of the run-context snapshot.
func (c Config) ContextEntries() map[string]any {
	out := make(map[string]any, len(c.snapshot))
	for k, v := range c.snapshot {
		out[k] = v
	}
	return out
}

// stringify renders a context value for interpolation and condition
// evaluation. Strings pass through; numbers avoid the float "%v" noise;
// everything else round-trips through JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
