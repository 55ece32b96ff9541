package repository

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/academic-backend/internal/config"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	for _, driver := range []string{"mysql", "", "postgresql"} {
		set, closeFn, err := Open(context.Background(), &config.Config{DBDriver: driver}, zerolog.New(io.Discard))
		assert.ErrorIs(t, err, ErrUnsupportedDriver, driver)
		assert.Nil(t, set)
		assert.Nil(t, closeFn)
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "data", "academic.db"),
	}

	set, closeFn, err := Open(context.Background(), cfg, zerolog.New(io.Discard))
	require.NoError(t, err)
	defer closeFn()
	assert.NotNil(t, set.Terms)
	assert.NotNil(t, set.TestRuns)
}
