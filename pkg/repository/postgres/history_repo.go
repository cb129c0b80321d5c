package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anaswara-jk/Careerly/pkg/history"
)

// HistoryRepository implements history.Repository backed by PostgreSQL (pgx).
type HistoryRepository struct {
	pool *pgxpool.Pool
}

var _ history.Repository = (*HistoryRepository)(nil)

func NewHistoryRepository(pool *pgxpool.Pool) (*HistoryRepository, error) {
	r := &HistoryRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *HistoryRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resume_analyses (
	id UUID PRIMARY KEY,
	file_name TEXT NOT NULL,
	file_id TEXT NOT NULL,
	parsed JSONB NOT NULL,
	suggestions JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS chat_transcripts (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	progress INT NOT NULL DEFAULT 0,
	messages JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS chat_transcripts_session_idx ON chat_transcripts (session_id);
`)
	return err
}

func (r *HistoryRepository) SaveAnalysis(ctx context.Context, a history.Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	parsed, err := json.Marshal(a.Parsed)
	if err != nil {
		return fmt.Errorf("encode parsed resume: %w", err)
	}
	sugg, err := json.Marshal(a.Suggestions)
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO resume_analyses (id, file_name, file_id, parsed, suggestions, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, a.ID, a.FileName, a.FileID, parsed, sugg, a.CreatedAt)
	return err
}

func (r *HistoryRepository) SaveTranscript(ctx context.Context, t history.Transcript) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	msgs, err := json.Marshal(t.Messages)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO chat_transcripts (id, session_id, stage, progress, messages, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, t.ID, t.SessionID, t.Stage, t.Progress, msgs, t.CreatedAt)
	return err
}

func (r *HistoryRepository) ListAnalyses(ctx context.Context, limit, offset int) ([]history.Analysis, error) {
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, file_name, file_id, parsed, suggestions, created_at
FROM resume_analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []history.Analysis{}
	for rows.Next() {
		var a history.Analysis
		var parsed, sugg []byte
		var created time.Time
		if err := rows.Scan(&a.ID, &a.FileName, &a.FileID, &parsed, &sugg, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(parsed, &a.Parsed); err != nil {
			return nil, fmt.Errorf("decode parsed resume %s: %w", a.ID, err)
		}
		if err := json.Unmarshal(sugg, &a.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions %s: %w", a.ID, err)
		}
		a.CreatedAt = created.UTC()
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *HistoryRepository) ListTranscripts(ctx context.Context, limit, offset int) ([]history.Transcript, error) {
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, session_id, stage, progress, messages, created_at
FROM chat_transcripts
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []history.Transcript{}
	for rows.Next() {
		var t history.Transcript
		var msgs []byte
		var created time.Time
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Stage, &t.Progress, &msgs, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(msgs, &t.Messages); err != nil {
			return nil, fmt.Errorf("decode transcript %s: %w", t.ID, err)
		}
		t.CreatedAt = created.UTC()
		res = append(res, t)
	}
	return res, rows.Err()
}
