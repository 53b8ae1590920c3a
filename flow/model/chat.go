// Package model provides the AI provider abstraction used by AIPrompt nodes.
package model

import (
	"context"
	"sort"
	"sync"
)

// Standard conversation roles shared by the major providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a provider conversation.
type Message struct {
	Role    string
	Content string
}

// Request is a single generation request.
type Request struct {
	// Model overrides the provider's default model name when non-empty.
	Model string

	// Messages is the conversation to send, in order.
	Messages []Message
}

// ChatOut is a provider's response.
type ChatOut struct {
	// Text is the generated content.
	Text string

	// TokensUsed is total token consumption (input + output) when the
	// provider reports it, zero otherwise.
	TokensUsed int
}

// ChatModel is the interface implemented by each provider adapter
// (anthropic, openai, google).
//
// Implementations handle provider-specific authentication and wire
// formats, translate errors to plain Go errors, and respect context
// cancellation. They must be safe for concurrent use: independent
// workflow runs share one provider instance.
type ChatModel interface {
	Chat(ctx context.Context, req Request) (ChatOut, error)
}

// Registry maps provider names ("anthropic", "openai", "google") to
// ChatModel implementations. AIPrompt nodes select a provider by name
// through their config.
type Registry struct {
	mu     sync.RWMutex
	models map[string]ChatModel
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]ChatModel)}
}

// Register binds a provider name to an implementation, replacing any
// previous binding for that name.
func (r *Registry) Register(name string, m ChatModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[name] = m
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (ChatModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.models))
	for name := range r.models {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
