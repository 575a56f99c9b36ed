package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
}

// opts дописываются после ключа: свой endpoint, http-клиент.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.WebSearch {
		return "", ErrWebSearchUnsupported
	}

	system, history, last, err := toGeminiContents(req.Messages)
	if err != nil {
		return "", err
	}

	model := c.client.GenerativeModel(req.Model)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		log.Printf("[ai] gemini error model=%s: %v", req.Model, err)
		return "", fmt.Errorf("gemini %s: %w", req.Model, err)
	}

	raw := extractText(resp)
	if strings.TrimSpace(raw) == "" {
		for i, cand := range resp.Candidates {
			log.Printf("[ai] gemini candidate %d: FinishReason=%s", i, cand.FinishReason)
		}
		return "", ErrEmptyReply
	}

	log.Printf("[ai] gemini reply model=%s len=%d", req.Model, len(raw))

	return raw, nil
}

// toGeminiContents раскладывает историю под chat API Gemini:
// system уходит в SystemInstruction, последний user — в SendMessage.
func toGeminiContents(msgs []Message) (system string, history []*genai.Content, last string, err error) {
	var systemParts []string
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			systemParts = append(systemParts, m.Text)
			continue
		}
		rest = append(rest, m)
	}

	if len(rest) == 0 || rest[len(rest)-1].Role != RoleUser {
		return "", nil, "", fmt.Errorf("gemini: conversation must end with a user message")
	}

	for _, m := range rest[:len(rest)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}

	return strings.Join(systemParts, "\n\n"), history, rest[len(rest)-1].Text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
