package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("TEST_RUN_RETENTION", "")

	cfg := Load()

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, 24*time.Hour, cfg.TestRunRetention)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("REAPER_INTERVAL", "90s")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 90*time.Second, cfg.ReaperInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "sqlite:///tmp/x.db", cfg.MigrationURL())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "lots")
	t.Setenv("REAPER_INTERVAL", "soon")
	t.Setenv("AUTO_MIGRATE", "maybe")

	cfg := Load()

	assert.Equal(t, int32(16), cfg.MaxDBConns)
	assert.Equal(t, 10*time.Minute, cfg.ReaperInterval)
	assert.True(t, cfg.AutoMigrate)
}

func TestMigrationURLPostgres(t *testing.T) {
	cfg := &Config{DBDriver: DriverPostgres, DatabaseURL: "postgres://u:p@h/db"}
	assert.Equal(t, "postgres://u:p@h/db", cfg.MigrationURL())
}
