// Package ai rewrites generated report text with an OpenAI-compatible
// chat model.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *Client) SetModel(model string) {
	c.model = model
}

const digestSystemPrompt = `You polish short weather digest notifications for a hobby app.
Rewrite the user's text so it reads naturally and stays friendly.
Keep every fact, number and bullet; do not invent data.
Keep it roughly the same length and keep the line structure.`

// PolishDigest rewrites a daily digest for readability. The caller
// falls back to the raw text when this fails.
func (c *Client) PolishDigest(ctx context.Context, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: digestSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	polished := strings.TrimSpace(resp.Choices[0].Message.Content)
	if polished == "" {
		return "", fmt.Errorf("empty response from AI")
	}
	return polished, nil
}
