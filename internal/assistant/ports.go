package assistant

import (
	"context"
	"time"
)

// FallbackReply уходит пользователю, когда ни одна модель не ответила.
const FallbackReply = "Sorry, the system is temporarily unavailable. Please try again later!"

// Attempt — один вызов одной модели в рамках хода.
type Attempt struct {
	Model   string
	Err     error
	Latency time.Duration
}

func (a Attempt) OK() bool { return a.Err == nil }

// Turn — итог одного Chat: что спросили, кто ответил, сколько попыток.
type Turn struct {
	ID          string
	UserMessage string
	Reply       string
	Model       string // пусто, если ответ деградировал
	Degraded    bool
	Attempts    []Attempt
	StartedAt   time.Time
	Duration    time.Duration
}

// Journal — куда складываются итоги ходов. Ошибки журнала не влияют на ответ.
type Journal interface {
	RecordTurn(ctx context.Context, turn Turn) error
}

type nopJournal struct{}

func (nopJournal) RecordTurn(context.Context, Turn) error { return nil }

// Chatter — то, что нужно HTTP-слою от ассистента.
type Chatter interface {
	Chat(ctx context.Context, userMessage string) string
}
