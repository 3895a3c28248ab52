package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oikos/disc-backend/internal/model"
)

const resultColumns = `id, email, name, score_d, score_i, score_s, score_c, profile_name, created_at`

// ResultRepository handles the append-only results table.
type ResultRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db, now: time.Now}
}

// Create appends a result, assigning its ID and creation time.
func (r *ResultRepository) Create(ctx context.Context, res *model.TestResult) error {
	id := uuid.New()
	createdAt := r.now().UTC()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO results (id, email, name, score_d, score_i, score_s, score_c, profile_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), res.Email, res.Name,
		res.Scores.D, res.Scores.I, res.Scores.S, res.Scores.C,
		res.ProfileName, formatTime(createdAt),
	); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	res.ID = id
	res.CreatedAt = createdAt
	return nil
}

// ListAll retrieves every result, newest first.
func (r *ResultRepository) ListAll(ctx context.Context) ([]model.TestResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

// ListByEmail retrieves the results of one participant, newest first.
func (r *ResultRepository) ListByEmail(ctx context.Context, email string) ([]model.TestResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE email = ?
		 ORDER BY created_at DESC, rowid DESC`, email)
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

// CountByEmail returns how many results a participant has stored.
func (r *ResultRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE email = ?`, email).Scan(&n)
	return n, err
}

func collectResults(rows *sql.Rows) ([]model.TestResult, error) {
	defer rows.Close()

	var results []model.TestResult
	for rows.Next() {
		var (
			res       model.TestResult
			id        string
			createdAt string
		)
		if err := rows.Scan(
			&id, &res.Email, &res.Name,
			&res.Scores.D, &res.Scores.I, &res.Scores.S, &res.Scores.C,
			&res.ProfileName, &createdAt,
		); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse result id %q: %w", id, err)
		}
		res.ID = parsed
		res.CreatedAt = parseTime(createdAt)
		results = append(results, res)
	}
	return results, rows.Err()
}
