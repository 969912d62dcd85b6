package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// attemptRepo implements AttemptRepo over the raw database handle.
type attemptRepo struct {
	db *sql.DB
}

const attemptColumns = `id, document_id, document_name, quiz_title, mode,
	questions, correct, percent, auto_submitted, duration_seconds,
	started_at, finished_at`

func (r *attemptRepo) Record(ctx context.Context, a *Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts (`+attemptColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.DocumentID, a.DocumentName, a.QuizTitle, a.Mode,
		a.Questions, a.Correct, a.Percent, a.AutoSubmitted, a.DurationSeconds,
		a.StartedAt.Unix(), a.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	return r.query(ctx, `SELECT `+attemptColumns+` FROM attempts
		ORDER BY finished_at DESC, id`, nil, limit)
}

func (r *attemptRepo) ForDocument(ctx context.Context, documentID string, limit int) ([]Attempt, error) {
	return r.query(ctx, `SELECT `+attemptColumns+` FROM attempts
		WHERE document_id = ?
		ORDER BY finished_at DESC, id`, []any{documentID}, limit)
}

func (r *attemptRepo) query(ctx context.Context, q string, args []any, limit int) ([]Attempt, error) {
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var startedAt, finishedAt int64
		err := rows.Scan(
			&a.ID, &a.DocumentID, &a.DocumentName, &a.QuizTitle, &a.Mode,
			&a.Questions, &a.Correct, &a.Percent, &a.AutoSubmitted, &a.DurationSeconds,
			&startedAt, &finishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.StartedAt = time.Unix(startedAt, 0).UTC()
		a.FinishedAt = time.Unix(finishedAt, 0).UTC()
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func (r *attemptRepo) Stats(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		avg   float64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(AVG(percent), 0),
			COALESCE(MAX(percent), 0),
			COALESCE(SUM(auto_submitted), 0)
		 FROM attempts`,
	).Scan(&stats.Attempts, &avg, &stats.BestPercent, &stats.AutoSubmitted)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate attempts: %w", err)
	}
	stats.AvgPercent = int(math.Round(avg))
	return stats, nil
}

func (r *attemptRepo) Prune(ctx context.Context, keep int) error {
	// Find the timestamp threshold: the attempt just past the keep
	// window, newest first.
	row := r.db.QueryRowContext(ctx,
		`SELECT finished_at FROM attempts
		 ORDER BY finished_at DESC, id
		 LIMIT 1 OFFSET ?`, keep)

	var threshold int64
	if err := row.Scan(&threshold); err != nil {
		if err == sql.ErrNoRows {
			return nil // fewer than keep attempts exist
		}
		return fmt.Errorf("query attempts for prune: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM attempts WHERE finished_at <= ?`, threshold); err != nil {
		return fmt.Errorf("prune attempts: %w", err)
	}
	return nil
}

func (r *attemptRepo) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attempts`); err != nil {
		return fmt.Errorf("purge attempts: %w", err)
	}
	return nil
}
