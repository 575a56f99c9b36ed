package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient — baseURL пустой для api.openai.com, иначе любой
// OpenAI-совместимый шлюз.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.WebSearch {
		return "", ErrWebSearchUnsupported
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    toOpenAIRole(m.Role),
			Content: m.Text,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	})
	if err != nil {
		log.Printf("[ai] openai error model=%s: %v", req.Model, err)
		return "", fmt.Errorf("openai %s: %w", req.Model, err)
	}

	if len(resp.Choices) == 0 {
		log.Printf("[ai] openai empty choices model=%s", req.Model)
		return "", ErrEmptyReply
	}

	raw := resp.Choices[0].Message.Content
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyReply
	}

	log.Printf("[ai] openai reply model=%s len=%d", req.Model, len(raw))

	return raw, nil
}

func toOpenAIRole(r Role) string {
	switch r {
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	case RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
