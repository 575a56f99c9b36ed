package journal

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Vovarama1992/assistant-bridge/internal/assistant"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DriverFor: postgres:// и postgresql:// → lib/pq, всё остальное — путь/DSN sqlite.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	driver := DriverFor(dsn)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal open (%s): %w", driver, err)
	}
	if driver == DriverSQLite {
		// один писатель, иначе SQLITE_BUSY под параллельными запросами
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal ping (%s): %w", driver, err)
	}

	return db, nil
}

type repo struct {
	db     *sql.DB
	driver string
}

func NewRepo(db *sql.DB, driver string) Repo {
	return &repo{db: db, driver: driver}
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// q: запросы пишутся с $N (postgres), для sqlite переводим в ?.
// Порядок $N в запросах всегда совпадает с порядком аргументов.
func (r *repo) q(query string) string {
	if r.driver == DriverPostgres {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

const schema = `
CREATE TABLE IF NOT EXISTS chat_turns (
	id           TEXT PRIMARY KEY,
	user_message TEXT NOT NULL,
	reply        TEXT NOT NULL,
	model        TEXT NOT NULL,
	degraded     BOOLEAN NOT NULL,
	started_at   BIGINT NOT NULL,
	duration_ms  BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS model_attempts (
	turn_id    TEXT NOT NULL REFERENCES chat_turns(id),
	position   INTEGER NOT NULL,
	model      TEXT NOT NULL,
	error      TEXT NOT NULL,
	latency_ms BIGINT NOT NULL,
	PRIMARY KEY (turn_id, position)
);
`

func (r *repo) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("journal migrate: %w", err)
		}
	}
	return nil
}

func (r *repo) RecordTurn(ctx context.Context, turn assistant.Turn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.q(`
		INSERT INTO chat_turns (id, user_message, reply, model, degraded, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`),
		turn.ID,
		turn.UserMessage,
		turn.Reply,
		turn.Model,
		turn.Degraded,
		turn.StartedAt.UnixMilli(),
		turn.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	for i, a := range turn.Attempts {
		errText := ""
		if a.Err != nil {
			errText = a.Err.Error()
		}
		if _, err := tx.ExecContext(ctx, r.q(`
			INSERT INTO model_attempts (turn_id, position, model, error, latency_ms)
			VALUES ($1, $2, $3, $4, $5)
		`),
			turn.ID,
			i,
			a.Model,
			errText,
			a.Latency.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert attempt %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *repo) RecentTurns(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT t.id, t.user_message, t.reply, t.model, t.degraded, t.started_at, t.duration_ms,
		       (SELECT COUNT(*) FROM model_attempts a WHERE a.turn_id = t.id)
		FROM chat_turns t
		ORDER BY t.started_at DESC, t.id
		LIMIT $1
	`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var startedMs, durationMs int64
		if err := rows.Scan(
			&e.ID,
			&e.UserMessage,
			&e.Reply,
			&e.Model,
			&e.Degraded,
			&startedMs,
			&durationMs,
			&e.Attempts,
		); err != nil {
			return nil, err
		}
		e.StartedAt = time.UnixMilli(startedMs)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, e)
	}

	return out, rows.Err()
}
