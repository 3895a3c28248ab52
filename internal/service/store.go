package service

import (
	"context"

	"github.com/oikos/disc-backend/internal/flow"
	"github.com/oikos/disc-backend/internal/model"
)

// UserStore appends login records. Implemented by the pgx and sqlite repositories.
type UserStore interface {
	Create(ctx context.Context, u *model.UserRecord) error
}

// ResultStore appends and lists test results.
type ResultStore interface {
	Create(ctx context.Context, res *model.TestResult) error
	ListAll(ctx context.Context) ([]model.TestResult, error)
	ListByEmail(ctx context.Context, email string) ([]model.TestResult, error)
	CountByEmail(ctx context.Context, email string) (int, error)
}

// DashboardStore computes admin aggregates.
type DashboardStore interface {
	Summary(ctx context.Context) (*model.ResultSummary, error)
}

// FlowStateStore keeps per-session router state. Load returns
// repository.ErrSessionNotFound for unknown sessions. CompareAndSwap returns
// repository.ErrStateConflict when the stored version is no longer
// prev.Version.
type FlowStateStore interface {
	Load(ctx context.Context, sessionID string) (flow.State, error)
	Save(ctx context.Context, sessionID string, s flow.State) error
	CompareAndSwap(ctx context.Context, sessionID string, prev, next flow.State) error
	Delete(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// ResultPublisher broadcasts encoded result events.
type ResultPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}
