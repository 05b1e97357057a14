package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-console/internal/db"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DATABASE_DRIVER", "DATABASE_URL", "HTTP_ADDR", "LOG_LEVEL", "ENV",
		"SENTRY_DSN", "AUDIT_INTERVAL", "EXPORT_DIR", "SEED"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, db.SQLite, cfg.Driver)
	assert.Equal(t, ":memory:", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Zero(t, cfg.AuditInterval)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "school.db")
	t.Setenv("AUDIT_INTERVAL", "5m")
	t.Setenv("SEED", "42")

	cfg, err := Load([]string{"other.db"})
	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.AuditInterval)
	assert.EqualValues(t, 42, cfg.Seed)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "oracle")
	_, err := Load(nil)
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "postgres")
	_, err = Load(nil)
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("AUDIT_INTERVAL", "soon")
	_, err = Load(nil)
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SEED", "-1")
	_, err = Load(nil)
	assert.Error(t, err)
}
