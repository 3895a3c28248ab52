package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")

	cfg := Load()
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Nil(t, cfg.AdminEmails)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " admin@oikos.edu , ,staff@oikos.edu")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")

	cfg := Load()
	assert.Equal(t, []string{"admin@oikos.edu", "staff@oikos.edu"}, cfg.AdminEmails)
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.LoginRateLimit)
}
