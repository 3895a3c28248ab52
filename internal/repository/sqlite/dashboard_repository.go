package sqlite

import (
	"context"
	"database/sql"

	"github.com/oikos/disc-backend/internal/model"
)

// DashboardRepository handles admin dashboard aggregates.
type DashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary computes totals, per-dimension averages and the profile distribution.
func (r *DashboardRepository) Summary(ctx context.Context) (*model.ResultSummary, error) {
	s := &model.ResultSummary{Profiles: []model.ProfileCount{}}
	var latest sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM results),
			(SELECT COUNT(DISTINCT email) FROM users),
			COALESCE(AVG(score_d), 0),
			COALESCE(AVG(score_i), 0),
			COALESCE(AVG(score_s), 0),
			COALESCE(AVG(score_c), 0),
			MAX(created_at)
		 FROM results`,
	).Scan(&s.TotalResults, &s.TotalUsers,
		&s.Averages.D, &s.Averages.I, &s.Averages.S, &s.Averages.C, &latest)
	if err != nil {
		return nil, err
	}
	if latest.Valid {
		t := parseTime(latest.String)
		s.LatestResultAt = &t
	}

	rows, err := r.db.QueryContext(ctx,
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
