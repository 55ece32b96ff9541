package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

// Repository is the per-entity persistence capability consumed by the
// managers. Lookups that match nothing return ErrNotFound.
type Repository[E model.Entity[E]] interface {
	// Save inserts e when it has no surrogate id, otherwise updates it.
	// The returned value carries the store-assigned id and version. An
	// update with a non-zero version only applies while the stored row
	// still has that version.
	Save(ctx context.Context, e E) (E, error)
	FindOne(ctx context.Context, id int) (E, error)
	FindByUUID(ctx context.Context, uuid string) (E, error)
	// Delete removes the row backing e, under the same version rule as Save.
	Delete(ctx context.Context, e E) error
	FindAll(ctx context.Context) ([]E, error)
	// DeleteByTestRun removes every row tagged with the test run and
	// returns the number of removed rows.
	DeleteByTestRun(ctx context.Context, testRunID int) (int64, error)
}

// EntityRepository is the SQL implementation of Repository shared by the
// PostgreSQL and SQLite backends.
type EntityRepository[E model.Entity[E]] struct {
	db   conn
	kind model.Kind[E]
	stmt statements
	now  func() time.Time
}

// NewPostgresRepository creates an EntityRepository backed by a pgx pool.
func NewPostgresRepository[E model.Entity[E]](pool *pgxpool.Pool, kind model.Kind[E]) *EntityRepository[E] {
	return newEntityRepository(pgxConn{pool: pool}, kind, dialectPostgres)
}

// NewSQLiteRepository creates an EntityRepository backed by a database/sql
// handle opened with the modernc sqlite driver.
func NewSQLiteRepository[E model.Entity[E]](db *sql.DB, kind model.Kind[E]) *EntityRepository[E] {
	return newEntityRepository(sqlConn{db: db}, kind, dialectSQLite)
}

func newEntityRepository[E model.Entity[E]](db conn, kind model.Kind[E], d dialect) *EntityRepository[E] {
	return &EntityRepository[E]{
		db:   db,
		kind: kind,
		stmt: buildStatements(kind, d),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Save persists e and returns it with id, version and timestamps populated.
func (r *EntityRepository[E]) Save(ctx context.Context, e E) (E, error) {
	rec := e.Base()
	now := r.now()

	if rec.ID == 0 {
		args := []any{rec.UUID, rec.Name, 1, nullableInt(rec.TestRunID), now, now}
		args = append(args, extensionValues(e)...)
		if err := r.db.queryRow(ctx, r.stmt.insert, args...).Scan(&rec.ID); err != nil {
			return e, wrapWrite(err, "insert %s", r.kind.Name)
		}
		rec.Version = 1
		rec.CreatedAt = now
		rec.UpdatedAt = now
		return e, nil
	}

	args := []any{rec.Name, nullableInt(rec.TestRunID), now}
	args = append(args, extensionValues(e)...)
	args = append(args, rec.ID)
	query := r.stmt.update
	if rec.Version != 0 {
		query = r.stmt.updateVersion
		args = append(args, rec.Version)
	}
	if err := r.db.queryRow(ctx, query, args...).Scan(&rec.Version); err != nil {
		if isNoRows(err) {
			return e, r.missed(ctx, rec)
		}
		return e, wrapWrite(err, "update %s %d", r.kind.Name, rec.ID)
	}
	rec.UpdatedAt = now
	return e, nil
}

// FindOne retrieves an entity by its surrogate id.
func (r *EntityRepository[E]) FindOne(ctx context.Context, id int) (E, error) {
	return r.scanOne(r.db.queryRow(ctx, r.stmt.selectByID, id))
}

// FindByUUID retrieves an entity by its external identifier.
func (r *EntityRepository[E]) FindByUUID(ctx context.Context, uuid string) (E, error) {
	return r.scanOne(r.db.queryRow(ctx, r.stmt.selectByUUID, uuid))
}

// Delete removes the row backing e.
func (r *EntityRepository[E]) Delete(ctx context.Context, e E) error {
	rec := e.Base()
	query, args := r.stmt.deleteByID, []any{rec.ID}
	if rec.Version != 0 {
		query, args = r.stmt.deleteVersion, append(args, rec.Version)
	}
	n, err := r.db.exec(ctx, query, args...)
	if err != nil {
		return wrapWrite(err, "delete %s %d", r.kind.Name, rec.ID)
	}
	if n == 0 {
		return r.missed(ctx, rec)
	}
	return nil
}

// missed explains a versioned write that matched no row: the row is gone
// or another writer moved its version on.
func (r *EntityRepository[E]) missed(ctx context.Context, rec *model.Record) error {
	current, err := r.FindOne(ctx, rec.ID)
	if err != nil {
		return err
	}
	if rec.Version == 0 {
		return ErrNotFound
	}
	return &failure.VersionConflictError{UUID: rec.UUID, Expected: rec.Version, Actual: current.Base().Version}
}

// FindAll retrieves all entities ordered by name.
func (r *EntityRepository[E]) FindAll(ctx context.Context) ([]E, error) {
	rows, err := r.db.query(ctx, r.stmt.selectAll)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.Name, err)
	}
	defer rows.Close()

	items := []E{}
	for rows.Next() {
		e := r.kind.New()
		if err := rows.Scan(scanTargets(e)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.kind.Name, err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// DeleteByTestRun removes every row tagged with testRunID.
func (r *EntityRepository[E]) DeleteByTestRun(ctx context.Context, testRunID int) (int64, error) {
	n, err := r.db.exec(ctx, r.stmt.deleteByTestRun, testRunID)
	if err != nil {
		return 0, fmt.Errorf("purge %s for test run %d: %w", r.kind.Name, testRunID, err)
	}
	return n, nil
}

func (r *EntityRepository[E]) scanOne(row scanner) (E, error) {
	e := r.kind.New()
	if err := row.Scan(scanTargets(e)...); err != nil {
		var zero E
		if isNoRows(err) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("scan %s: %w", r.kind.Name, err)
	}
	return e, nil
}

func scanTargets[E model.Entity[E]](e E) []any {
	rec := e.Base()
	targets := []any{&rec.ID, &rec.UUID, &rec.Name, &rec.Version, &rec.TestRunID, &rec.CreatedAt, &rec.UpdatedAt}
	if ext, ok := any(e).(model.Extension); ok {
		targets = append(targets, ext.Targets()...)
	}
	return targets
}

func extensionValues[E model.Entity[E]](e E) []any {
	if ext, ok := any(e).(model.Extension); ok {
		return ext.Values()
	}
	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
