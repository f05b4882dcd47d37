package llm

import (
	"context"
	"errors"

	"go-healthbot/config"

	openai "github.com/sashabaranov/go-openai"
)

const (
	systemPrompt = "You are a health assistant. Provide concise advice for health queries (max 50 words) " +
		"must ends with You can book an appointment anytime. Just type 'Book appointment'."
	maxTokens   = 50
	temperature = 0.7
)

var ErrEmptyCompletion = errors.New("completion returned no choices")

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint
// (OpenRouter by default).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient returns nil when no API key is configured, which callers
// treat as "use the local fallback".
func NewOpenAIClient(cfg config.LLMConfig) *OpenAIClient {
	if cfg.APIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Complete sends prompt as the user turn after the fixed system prompt.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
