package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/database"
)

// ErrUnsupportedDriver is returned by Open for an unknown DB_DRIVER.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open connects to the database selected by cfg.DBDriver and returns the
// repository set over it, plus a func that releases the connection.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Set, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgresSet(pool), pool.Close, nil
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return NewSQLiteSet(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DBDriver)
	}
}
