package ai

import (
	"context"
	"errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message — универсальный формат диалога для всех провайдеров
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"content"`
}

// Request — один вызов модели: идентификатор, полная история, web search.
type Request struct {
	Model     string
	Messages  []Message
	WebSearch bool
}

// Completer — внешний интеллект. Ничего не знает про HTTP и историю.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

var (
	ErrEmptyReply           = errors.New("ai: empty reply")
	ErrWebSearchUnsupported = errors.New("ai: web search is not supported")
	ErrUnknownProvider      = errors.New("ai: unknown provider")
)
