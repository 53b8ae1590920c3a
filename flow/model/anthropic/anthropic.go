// Package anthropic implements model.ChatModel for Anthropic's Claude API.
package anthropic

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dshills/flowdag-go/flow/model"
)

// DefaultModel is used when neither the constructor nor the request
// names a model.
const DefaultModel = "claude-sonnet-4-20250514"

// ChatModel wraps the official anthropic-sdk-go client.
//
// Anthropic keeps the system prompt out of the message list, so system
// messages are extracted and passed through the dedicated parameter.
//
// Example:
//
//	m := anthropic.NewChatModel(os.Getenv("ANTHROPIC_API_KEY"), "")
//	out, err := m.Chat(ctx, model.Request{Messages: []model.Message{
//	    {Role: model.RoleUser, Content: "Summarize this log line."},
//	}})
type ChatModel struct {
	apiKey    string
	modelName string
	client    messageCreator
}

// messageCreator is the slice of the Anthropic client the adapter uses;
// tests substitute a mock.
type messageCreator interface {
	create(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// NewChatModel creates an adapter for the Claude API. An empty
// modelName selects DefaultModel.
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = DefaultModel
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ChatModel{
		apiKey:    apiKey,
		modelName: modelName,
		client:    sdkClient{client: &client},
	}
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, req model.Request) (model.ChatOut, error) {
	if m.apiKey == "" {
		return model.ChatOut{}, errors.New("anthropic API key is required")
	}
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}

	modelName := m.modelName
	if req.Model != "" {
		modelName = req.Model
	}

	system, conversation := splitSystem(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: 4096,
		Messages:  conversation,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := m.client.create(ctx, params)
	if err != nil {
		return model.ChatOut{}, err
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return model.ChatOut{
		Text:       text,
		TokensUsed: int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}, nil
}

// splitSystem separates system messages (joined into one prompt) from
// the conversational turns.
func splitSystem(messages []model.Message) (string, []anthropic.MessageParam) {
	var system string
	conversation := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			if system != "" {
				system += "\n"
			}
			system += msg.Content
		case model.RoleAssistant:
			conversation = append(conversation, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			conversation = append(conversation, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return system, conversation
}

type sdkClient struct {
	client *anthropic.Client
}

func (c sdkClient) create(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return c.client.Messages.New(ctx, params)
}
