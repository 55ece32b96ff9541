package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup does not resolve to a stored row.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint wraps unique and foreign key violations.
	ErrConstraint = errors.New("constraint violation")
)

const (
	pgIntegrityClass = "23" // unique_violation 23505, foreign_key_violation 23503, ...
	sqliteConstraint = 19   // SQLITE_CONSTRAINT primary result code
)

// dialect selects the placeholder syntax of the target database.
type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

func (d dialect) placeholder(n int) string {
	if d == dialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

type scanner interface {
	Scan(dest ...any) error
}

type rowIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// conn is the subset of a database handle the stores need. It is satisfied
// by adapters over *pgxpool.Pool and *sql.DB.
type conn interface {
	queryRow(ctx context.Context, query string, args ...any) scanner
	query(ctx context.Context, query string, args ...any) (rowIter, error)
	exec(ctx context.Context, query string, args ...any) (int64, error)
}

type pgxConn struct {
	pool *pgxpool.Pool
}

func (c pgxConn) queryRow(ctx context.Context, query string, args ...any) scanner {
	return c.pool.QueryRow(ctx, query, args...)
}

func (c pgxConn) query(ctx context.Context, query string, args ...any) (rowIter, error) {
	return c.pool.Query(ctx, query, args...)
}

func (c pgxConn) exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type sqlConn struct {
	db *sql.DB
}

func (c sqlConn) queryRow(ctx context.Context, query string, args ...any) scanner {
	return c.db.QueryRowContext(ctx, query, args...)
}

func (c sqlConn) query(ctx context.Context, query string, args ...any) (rowIter, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

func (c sqlConn) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() {
	_ = r.Rows.Close()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func isConstraint(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == pgIntegrityClass
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqliteConstraint
	}
	return false
}

// wrapWrite annotates a failed write, tagging constraint violations so
// callers can tell them from connectivity faults.
func wrapWrite(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if isConstraint(err) {
		return fmt.Errorf("%s: %w: %w", msg, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
