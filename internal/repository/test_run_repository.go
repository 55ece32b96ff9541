package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/academic-backend/pkg/model"
)

const testRunColumns = "id, uuid, name, created_at"

// TestRunRepository handles test run marker data access.
type TestRunRepository struct {
	db conn
	d  dialect
}

// NewPostgresTestRunRepository creates a TestRunRepository backed by a pgx pool.
func NewPostgresTestRunRepository(pool *pgxpool.Pool) *TestRunRepository {
	return &TestRunRepository{db: pgxConn{pool: pool}, d: dialectPostgres}
}

// NewSQLiteTestRunRepository creates a TestRunRepository backed by sqlite.
func NewSQLiteTestRunRepository(db *sql.DB) *TestRunRepository {
	return &TestRunRepository{db: sqlConn{db: db}, d: dialectSQLite}
}

// Create inserts a new test run.
func (r *TestRunRepository) Create(ctx context.Context, run *model.TestRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	q := fmt.Sprintf("INSERT INTO test_runs (uuid, name, created_at) VALUES (%s, %s, %s) RETURNING id",
		r.d.placeholder(1), r.d.placeholder(2), r.d.placeholder(3))
	if err := r.db.queryRow(ctx, q, run.UUID, run.Name, run.CreatedAt).Scan(&run.ID); err != nil {
		return fmt.Errorf("insert test run: %w", err)
	}
	return nil
}

// FindByUUID retrieves a test run by its external identifier.
func (r *TestRunRepository) FindByUUID(ctx context.Context, uuid string) (*model.TestRun, error) {
	run := &model.TestRun{}
	q := fmt.Sprintf("SELECT %s FROM test_runs WHERE uuid = %s", testRunColumns, r.d.placeholder(1))
	err := r.db.queryRow(ctx, q, uuid).Scan(&run.ID, &run.UUID, &run.Name, &run.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find test run: %w", err)
	}
	return run, nil
}

// List retrieves all test runs, oldest first.
func (r *TestRunRepository) List(ctx context.Context) ([]model.TestRun, error) {
	return r.list(ctx, fmt.Sprintf("SELECT %s FROM test_runs ORDER BY created_at, id", testRunColumns))
}

// ListCreatedBefore retrieves test runs created before cutoff.
func (r *TestRunRepository) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.TestRun, error) {
	q := fmt.Sprintf("SELECT %s FROM test_runs WHERE created_at < %s ORDER BY created_at, id",
		testRunColumns, r.d.placeholder(1))
	return r.list(ctx, q, cutoff.UTC())
}

// Delete removes a test run by its surrogate id.
func (r *TestRunRepository) Delete(ctx context.Context, id int) error {
	n, err := r.db.exec(ctx, fmt.Sprintf("DELETE FROM test_runs WHERE id = %s", r.d.placeholder(1)), id)
	if err != nil {
		return fmt.Errorf("delete test run %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TestRunRepository) list(ctx context.Context, q string, args ...any) ([]model.TestRun, error) {
	rows, err := r.db.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list test runs: %w", err)
	}
	defer rows.Close()

	runs := []model.TestRun{}
	for rows.Next() {
		var run model.TestRun
		if err := rows.Scan(&run.ID, &run.UUID, &run.Name, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan test run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
