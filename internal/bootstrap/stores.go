// Package bootstrap opens the configured persistence backends for the
// server and the operator CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/database"
	"github.com/oikos/disc-backend/internal/repository"
	"github.com/oikos/disc-backend/internal/repository/sqlite"
	"github.com/oikos/disc-backend/internal/service"
)

// Stores bundles the users and results stores of one backend.
type Stores struct {
	Driver    string
	Users     service.UserStore
	Results   service.ResultStore
	Dashboard service.DashboardStore

	closers []func()
}

// Close releases the underlying connections.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStores connects the backend selected by STORE_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver:    cfg.StoreDriver,
			Users:     repository.NewUserRepository(pool),
			Results:   repository.NewResultRepository(pool),
			Dashboard: repository.NewDashboardRepository(pool),
			closers:   []func(){pool.Close},
		}, nil

	case config.StoreDriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver:    cfg.StoreDriver,
			Users:     sqlite.NewUserRepository(db),
			Results:   sqlite.NewResultRepository(db),
			Dashboard: sqlite.NewDashboardRepository(db),
			closers:   []func(){func() { db.Close() }},
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, config.StoreDriverPostgres, config.StoreDriverSQLite)
}
