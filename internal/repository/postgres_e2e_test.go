//go:build e2e

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/database"
	"github.com/stemsi/academic-backend/pkg/model"
)

func newPostgresSet(t *testing.T) *Set {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	require.NoError(t, database.MigrateUp(config.DriverPostgres, url, zerolog.Nop()))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewPostgresSet(pool)
}

func TestPostgresStudentRoundTrip(t *testing.T) {
	ctx := context.Background()
	set := newPostgresSet(t)

	run := &model.TestRun{UUID: newTerm("").UUID, Name: "pg repository"}
	require.NoError(t, set.TestRuns.Create(ctx, run))
	t.Cleanup(func() {
		_, _ = set.Students.DeleteByTestRun(context.Background(), run.ID)
		_ = set.TestRuns.Delete(context.Background(), run.ID)
	})

	s := model.StudentKind.New()
	s.UUID = newTerm("").UUID
	s.Name = "Pg Student"
	s.EmailAddress = "pg@example.edu"
	s.TestRunID = &run.ID

	saved, err := set.Students.Save(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Version)

	saved.EmailAddress = "pg2@example.edu"
	updated, err := set.Students.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	found, err := set.Students.FindByUUID(ctx, s.UUID)
	require.NoError(t, err)
	assert.Equal(t, "pg2@example.edu", found.EmailAddress)
	require.NotNil(t, found.TestRunID)
	assert.Equal(t, run.ID, *found.TestRunID)

	n, err := set.Students.DeleteByTestRun(ctx, run.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = set.Students.FindByUUID(ctx, s.UUID)
	assert.ErrorIs(t, err, ErrNotFound)
}
