package exec

import (
	"context"

	"github.com/dshills/flowdag-go/flow"
	"github.com/dshills/flowdag-go/flow/model"
)

// DefaultProvider is used when an ai_prompt node does not name one.
const DefaultProvider = "openai"

// AIExecutor runs ai_prompt nodes against a registered chat model.
// Config:
//
//	prompt   — the user prompt (required)
//	provider — registered provider name; defaults to DefaultProvider
//	model    — provider model override
//	system   — system prompt prepended to the conversation
//
// Output carries content, tokens_used, provider, and model.
type AIExecutor struct {
	Models *model.Registry
}

// Execute implements flow.Executor.
func (a *AIExecutor) Execute(ctx context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	prompt, err := cfg.Require("prompt")
	if err != nil {
		return nil, err
	}

	provider := cfg.Get("provider")
	if provider == "" {
		provider = DefaultProvider
	}

	if a.Models == nil {
		return nil, flow.NewError(flow.CodeAI, "no AI providers configured").WithNode(node.ID)
	}
	chat, ok := a.Models.Lookup(provider)
	if !ok {
		return nil, flow.NewError(flow.CodeAI, "unknown AI provider: "+provider).WithNode(node.ID)
	}

	messages := make([]model.Message, 0, 2)
	if system := cfg.Get("system", "system_prompt"); system != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: system})
	}
	messages = append(messages, model.Message{Role: model.RoleUser, Content: prompt})

	out, err := chat.Chat(ctx, model.Request{
		Model:    cfg.Get("model"),
		Messages: messages,
	})
	if err != nil {
		return nil, flow.NewError(flow.CodeAI, "AI request failed").WithNode(node.ID).WithCause(err)
	}

	return map[string]any{
		"content":     out.Text,
		"tokens_used": out.TokensUsed,
		"provider":    provider,
		"model":       cfg.Get("model"),
	}, nil
}
