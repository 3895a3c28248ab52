package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oikos/disc-backend/internal/model"
)

const resultColumns = `id, email, name, score_d, score_i, score_s, score_c, profile_name, created_at`

// ResultRepository handles test result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create appends a result. ID and created_at are assigned by the database.
func (r *ResultRepository) Create(ctx context.Context, res *model.TestResult) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO results (email, name, score_d, score_i, score_s, score_c, profile_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		res.Email, res.Name, res.Scores.D, res.Scores.I, res.Scores.S, res.Scores.C, res.ProfileName,
	).Scan(&res.ID, &res.CreatedAt)
}

// ListAll retrieves every result, newest first.
func (r *ResultRepository) ListAll(ctx context.Context) ([]model.TestResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

// ListByEmail retrieves the results of one participant, newest first.
func (r *ResultRepository) ListByEmail(ctx context.Context, email string) ([]model.TestResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE email = $1
		 ORDER BY created_at DESC, id DESC`, email,
	)
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

// CountByEmail returns how many results a participant has stored.
func (r *ResultRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM results WHERE email = $1`, email).Scan(&n)
	return n, err
}

func collectResults(rows pgx.Rows) ([]model.TestResult, error) {
	defer rows.Close()

	var results []model.TestResult
	for rows.Next() {
		var res model.TestResult
		if err := rows.Scan(
			&res.ID, &res.Email, &res.Name,
			&res.Scores.D, &res.Scores.I, &res.Scores.S, &res.Scores.C,
			&res.ProfileName, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
