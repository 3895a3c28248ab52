package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oikos/disc-backend/internal/model"
)

// UserRepository handles the append-only users table.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Create appends a login record.
func (r *UserRepository) Create(ctx context.Context, u *model.UserRecord) error {
	id := uuid.New()
	createdAt := r.now().UTC()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		id.String(), u.Name, u.Email, formatTime(createdAt),
	); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	u.CreatedAt = createdAt
	return nil
}
