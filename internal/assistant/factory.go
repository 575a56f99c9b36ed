package assistant

import (
	"context"

	"github.com/Vovarama1992/assistant-bridge/internal/ai"
)

// InstructionProvider — обычно *config.InstructionSource.
type InstructionProvider interface {
	Instruction() string
}

// Factory собирает свежий Assistant на каждый запрос.
type Factory struct {
	Instructions InstructionProvider
	Models       []string
	MaxHistory   int
	Completer    ai.Completer
	Journal      Journal
}

func (f *Factory) New() *Assistant {
	return New(Options{
		Instruction: f.Instructions.Instruction(),
		Models:      f.Models,
		MaxHistory:  f.MaxHistory,
		Completer:   f.Completer,
		Journal:     f.Journal,
	})
}

// Chat — один ход на новом экземпляре; история живёт только внутри вызова.
func (f *Factory) Chat(ctx context.Context, userMessage string) string {
	return f.New().Chat(ctx, userMessage)
}
