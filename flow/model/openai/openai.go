// Package openai implements model.ChatModel for OpenAI's chat API.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/dshills/flowdag-go/flow/model"
)

// DefaultModel is used when neither the constructor nor the request
// names a model.
const DefaultModel = "gpt-4o-mini"

// ChatModel wraps the official openai-go client.
//
// Example:
//
//	m := openai.NewChatModel(os.Getenv("OPENAI_API_KEY"), "gpt-4o")
//	out, err := m.Chat(ctx, model.Request{Messages: []model.Message{
//	    {Role: model.RoleUser, Content: "Classify this ticket."},
//	}})
type ChatModel struct {
	apiKey    string
	modelName string
	client    completionCreator
}

// completionCreator is the slice of the OpenAI client the adapter uses;
// tests substitute a mock.
type completionCreator interface {
	create(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// NewChatModel creates an adapter for the OpenAI chat API. An empty
// modelName selects DefaultModel.
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = DefaultModel
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &ChatModel{
		apiKey:    apiKey,
		modelName: modelName,
		client:    sdkClient{client: &client},
	}
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, req model.Request) (model.ChatOut, error) {
	if m.apiKey == "" {
		return model.ChatOut{}, errors.New("openai API key is required")
	}
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}

	modelName := m.modelName
	if req.Model != "" {
		modelName = req.Model
	}

	completion, err := m.client.create(ctx, openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(modelName),
		Messages: convertMessages(req.Messages),
	})
	if err != nil {
		return model.ChatOut{}, err
	}
	if len(completion.Choices) == 0 {
		return model.ChatOut{}, errors.New("openai returned no choices")
	}

	return model.ChatOut{
		Text:       completion.Choices[0].Message.Content,
		TokensUsed: int(completion.Usage.TotalTokens),
	}, nil
}

func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

type sdkClient struct {
	client *openai.Client
}

func (c sdkClient) create(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
