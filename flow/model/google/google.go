// Package google implements model.ChatModel for Google's Gemini API.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dshills/flowdag-go/flow/model"
)

// DefaultModel is used when neither the constructor nor the request
// names a model.
const DefaultModel = "gemini-1.5-flash"

// ChatModel wraps the official generative-ai-go client.
//
// Gemini has no separate system channel in this adapter; system
// messages are folded into the prompt parts in order.
//
// Example:
//
//	m := google.NewChatModel(os.Getenv("GOOGLE_API_KEY"), "")
//	out, err := m.Chat(ctx, model.Request{Messages: []model.Message{
//	    {Role: model.RoleUser, Content: "Extract the dates from this text."},
//	}})
type ChatModel struct {
	apiKey    string
	modelName string
	generate  generateFunc
}

// generateFunc performs one generation call; tests substitute a mock.
type generateFunc func(ctx context.Context, apiKey, modelName string, parts []genai.Part) (*genai.GenerateContentResponse, error)

// NewChatModel creates an adapter for the Gemini API. An empty
// modelName selects DefaultModel.
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &ChatModel{
		apiKey:    apiKey,
		modelName: modelName,
		generate:  sdkGenerate,
	}
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, req model.Request) (model.ChatOut, error) {
	if m.apiKey == "" {
		return model.ChatOut{}, errors.New("google API key is required")
	}
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}

	modelName := m.modelName
	if req.Model != "" {
		modelName = req.Model
	}

	parts := make([]genai.Part, 0, len(req.Messages))
	for _, msg := range req.Messages {
		parts = append(parts, genai.Text(msg.Content))
	}

	resp, err := m.generate(ctx, m.apiKey, modelName, parts)
	if err != nil {
		return model.ChatOut{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return model.ChatOut{}, errors.New("google returned no candidates")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return model.ChatOut{Text: text, TokensUsed: tokens}, nil
}

// sdkGenerate opens a client per call; the Gemini client is cheap to
// construct and holding one open would pin its HTTP transport for the
// life of the process.
func sdkGenerate(ctx context.Context, apiKey, modelName string, parts []genai.Part) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}
	defer func() { _ = client.Close() }()

	return client.GenerativeModel(modelName).GenerateContent(ctx, parts...)
}
