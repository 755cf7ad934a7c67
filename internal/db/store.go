package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"alice/internal/domain"
	"alice/internal/turn"
)

// Store persists finished turns and routing telemetry.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			state TEXT NOT NULL,
			input TEXT NOT NULL DEFAULT '',
			reply TEXT NOT NULL DEFAULT '',
			tool TEXT NOT NULL DEFAULT '',
			events JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session_created ON turns(session_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS routing_events (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			utterance TEXT NOT NULL,
			stage TEXT NOT NULL,
			intent TEXT NOT NULL DEFAULT '',
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			phrase TEXT NOT NULL DEFAULT '',
			tool TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_routing_events_session_created ON routing_events(session_id, created_at);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SaveTurn(ctx context.Context, rec turn.Record) error {
	events, err := json.Marshal(rec.Events)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO turns (turn_id, session_id, state, input, reply, tool, events, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (turn_id) DO UPDATE SET
			state = EXCLUDED.state,
			reply = EXCLUDED.reply,
			tool = EXCLUDED.tool,
			events = EXCLUDED.events,
			updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.SessionID, string(rec.State), rec.Input, rec.Reply, rec.Tool, events, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

func (s *Store) SaveRoutingEvent(ctx context.Context, ev domain.RoutingEvent) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO routing_events (session_id, utterance, stage, intent, score, phrase, tool, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.SessionID, ev.Utterance, ev.Stage, ev.Intent, ev.Score, ev.Phrase, ev.Tool, ev.At,
	)
	return err
}

// RecentTurns returns the session's latest turns, newest first.
func (s *Store) RecentTurns(ctx context.Context, sessionID string, limit int) ([]turn.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT turn_id, session_id, state, input, reply, tool, events, created_at, updated_at
		 FROM turns WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []turn.Record
	for rows.Next() {
		var rec turn.Record
		var state string
		var events []byte
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&rec.ID, &rec.SessionID, &state, &rec.Input, &rec.Reply, &rec.Tool, &events, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rec.State = turn.State(state)
		rec.CreatedAt = createdAt
		rec.UpdatedAt = updatedAt
		if err := json.Unmarshal(events, &rec.Events); err != nil {
			rec.Events = nil
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
