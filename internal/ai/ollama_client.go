package ai

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type OllamaClient struct {
	client *api.Client
}

func NewOllamaClient(endpoint string) (*OllamaClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("OLLAMA_ENDPOINT URL is invalid: %w", err)
	}
	return &OllamaClient{
		client: api.NewClient(u, http.DefaultClient),
	}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.WebSearch {
		return "", ErrWebSearchUnsupported
	}

	msgs := make([]api.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, api.Message{
			Role:    string(m.Role),
			Content: m.Text,
		})
	}

	stream := false
	var out strings.Builder

	err := c.client.Chat(ctx, &api.ChatRequest{
		Model:    req.Model,
		Messages: msgs,
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		log.Printf("[ai] ollama error model=%s: %v", req.Model, err)
		return "", fmt.Errorf("ollama %s: %w", req.Model, err)
	}

	raw := out.String()
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyReply
	}

	log.Printf("[ai] ollama reply model=%s len=%d", req.Model, len(raw))

	return raw, nil
}
