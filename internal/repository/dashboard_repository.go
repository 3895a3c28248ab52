package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oikos/disc-backend/internal/model"
)

// DashboardRepository handles admin dashboard aggregates.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Summary computes totals, per-dimension averages and the profile distribution.
func (r *DashboardRepository) Summary(ctx context.Context) (*model.ResultSummary, error) {
	s := &model.ResultSummary{Profiles: []model.ProfileCount{}}
	var latest *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM results),
			(SELECT COUNT(DISTINCT email) FROM users),
			COALESCE(AVG(score_d), 0)::float8,
			COALESCE(AVG(score_i), 0)::float8,
			COALESCE(AVG(score_s), 0)::float8,
			COALESCE(AVG(score_c), 0)::float8,
			MAX(created_at)
		 FROM results`,
	).Scan(&s.TotalResults, &s.TotalUsers,
		&s.Averages.D, &s.Averages.I, &s.Averages.S, &s.Averages.C, &latest)
	if err != nil {
		return nil, err
	}
	s.LatestResultAt = latest

	rows, err := r.pool.Query(ctx,
		`SELECT profile_name, COUNT(*)
		 FROM results
		 GROUP BY profile_name
		 ORDER BY COUNT(*) DESC, profile_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pc model.ProfileCount
		if err := rows.Scan(&pc.ProfileName, &pc.Count); err != nil {
			return nil, err
		}
		s.Profiles = append(s.Profiles, pc)
	}
	return s, rows.Err()
}
