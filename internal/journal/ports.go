package journal

import (
	"context"
	"time"

	"github.com/Vovarama1992/assistant-bridge/internal/assistant"
)

// Entry — строка chat_turns для чтения.
type Entry struct {
	ID          string
	UserMessage string
	Reply       string
	Model       string
	Degraded    bool
	StartedAt   time.Time
	Duration    time.Duration
	Attempts    int
}

// Repo — persistence итогов ходов. Диалоги отсюда не восстанавливаются.
type Repo interface {
	Migrate(ctx context.Context) error
	RecordTurn(ctx context.Context, turn assistant.Turn) error
	RecentTurns(ctx context.Context, limit int) ([]Entry, error)
}

// Nop — журнал выключен (DATABASE_URL не задан).
type Nop struct{}

func (Nop) Migrate(context.Context) error { return nil }

func (Nop) RecordTurn(context.Context, assistant.Turn) error { return nil }

func (Nop) RecentTurns(context.Context, int) ([]Entry, error) { return nil, nil }
