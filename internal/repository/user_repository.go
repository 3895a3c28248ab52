package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oikos/disc-backend/internal/model"
)

// UserRepository handles the append-only users collection.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create appends a login record.
func (r *UserRepository) Create(ctx context.Context, u *model.UserRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id, created_at`,
		u.Name, u.Email,
	).Scan(&u.ID, &u.CreatedAt)
}
