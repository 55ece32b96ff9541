// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/database"
)

// NewSQLite returns a migrated SQLite database living in t.TempDir.
// The handle is closed when the test finishes.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "student.db")
	log := zerolog.New(io.Discard)

	db, err := database.NewSQLiteDB(context.Background(), path, log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.MigrateUp(config.DriverSQLite, "sqlite://"+path, log); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
