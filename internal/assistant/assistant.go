package assistant

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vovarama1992/assistant-bridge/internal/ai"
)

const minHistory = 2

type Options struct {
	Instruction string
	Models      []string
	MaxHistory  int
	Completer   ai.Completer
	Journal     Journal
}

// Assistant держит окно диалога одного экземпляра. Не потокобезопасен:
// один экземпляр — один запрос.
type Assistant struct {
	instruction string
	models      []string
	maxHistory  int
	completer   ai.Completer
	journal     Journal

	history []ai.Message
}

func New(opts Options) *Assistant {
	maxHistory := opts.MaxHistory
	if maxHistory < minHistory {
		maxHistory = minHistory
	}

	journal := opts.Journal
	if journal == nil {
		journal = nopJournal{}
	}

	return &Assistant{
		instruction: opts.Instruction,
		models:      append([]string(nil), opts.Models...),
		maxHistory:  maxHistory,
		completer:   opts.Completer,
		journal:     journal,
	}
}

func (a *Assistant) Instruction() string { return a.instruction }

func (a *Assistant) Models() []string { return append([]string(nil), a.models...) }

func (a *Assistant) History() []ai.Message {
	return append([]ai.Message(nil), a.history...)
}

// Chat проводит один ход: user → trim → модели по очереди до первого ответа.
func (a *Assistant) Chat(ctx context.Context, userMessage string) string {
	// Начатый ход доводится до конца: отвал клиента не обрывает
	// цепочку моделей и запись в журнал.
	ctx = context.WithoutCancel(ctx)

	turn := Turn{
		ID:          uuid.NewString(),
		UserMessage: userMessage,
		StartedAt:   time.Now(),
	}

	a.history = append(a.history, ai.Message{Role: ai.RoleUser, Text: userMessage})
	a.trim()

	for _, model := range a.models {
		res := a.callModel(ctx, model)
		turn.Attempts = append(turn.Attempts, res.Attempt)

		if !res.OK() {
			log.Printf("[assistant] turn=%s model=%s failed: %v", turn.ID, model, res.Err)
			continue
		}

		a.history = append(a.history, ai.Message{Role: ai.RoleAssistant, Text: res.reply})
		a.trim()

		turn.Reply = res.reply
		turn.Model = model
		a.finish(ctx, turn)
		return res.reply
	}

	log.Printf("[assistant] turn=%s all %d models failed", turn.ID, len(a.models))

	turn.Reply = FallbackReply
	turn.Degraded = true
	a.finish(ctx, turn)
	return FallbackReply
}

type result struct {
	Attempt
	reply string
}

func (a *Assistant) callModel(ctx context.Context, model string) result {
	start := time.Now()

	if a.completer == nil {
		return result{Attempt: Attempt{Model: model, Err: errors.New("no completer configured")}}
	}

	reply, err := a.completer.Complete(ctx, ai.Request{
		Model:     model,
		Messages:  a.History(),
		WebSearch: false,
	})
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ai.ErrEmptyReply
	}

	return result{
		Attempt: Attempt{Model: model, Err: err, Latency: time.Since(start)},
		reply:   reply,
	}
}

// trim оставляет самые свежие сообщения и гарантирует system в голове.
// После trim: len(history) <= maxHistory, history[0] — инструкция.
func (a *Assistant) trim() {
	body := a.history
	if len(body) > 0 && body[0].Role == ai.RoleSystem {
		body = body[1:]
	}

	if keep := a.maxHistory - 1; len(body) > keep {
		body = body[len(body)-keep:]
	}

	trimmed := make([]ai.Message, 0, len(body)+1)
	trimmed = append(trimmed, ai.Message{Role: ai.RoleSystem, Text: a.instruction})
	trimmed = append(trimmed, body...)
	a.history = trimmed
}

func (a *Assistant) finish(ctx context.Context, turn Turn) {
	turn.Duration = time.Since(turn.StartedAt)

	if err := a.journal.RecordTurn(ctx, turn); err != nil {
		log.Printf("[assistant] turn=%s journal error: %v", turn.ID, err)
	}
}
