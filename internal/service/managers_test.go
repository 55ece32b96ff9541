package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/internal/testutil"
	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

func newSQLiteManagers(t *testing.T) *Managers {
	t.Helper()
	return NewManagers(repository.NewSQLiteSet(testutil.NewSQLite(t)), nop)
}

func TestLifecycleAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteManagers(t).Courses

	created, err := m.Create(ctx, "Intro to Go")
	require.NoError(t, err)
	assert.NotEmpty(t, created.UUID)
	assert.Equal(t, "Intro to Go", created.Name)

	_, err = m.FindByUUID(ctx, uuid.NewString())
	assert.True(t, failure.IsObjectNotFound(err))

	_, err = m.Update(ctx, created, "Advanced Go")
	require.NoError(t, err)
	found, err := m.FindByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Advanced Go", found.Name)
	assert.Equal(t, created.UUID, found.UUID)
	assert.Equal(t, created.ID, found.ID)

	// created still carries version 1 and is now stale.
	_, err = m.Update(ctx, created, "Stale")
	assert.True(t, failure.IsVersionConflict(err))

	require.NoError(t, m.Delete(ctx, created.UUID, 0))
	_, err = m.FindByUUID(ctx, created.UUID)
	assert.True(t, failure.IsObjectNotFound(err))

	err = m.Delete(ctx, created.UUID, 0)
	assert.True(t, failure.IsObjectNotFound(err))
}

// interleavedRepo runs between once, right after the first lookup, so a
// second writer can commit before the manager writes.
type interleavedRepo[E model.Entity[E]] struct {
	repository.Repository[E]
	between func()
	ran     bool
}

func (r *interleavedRepo[E]) FindByUUID(ctx context.Context, id string) (E, error) {
	e, err := r.Repository.FindByUUID(ctx, id)
	if !r.ran {
		r.ran = true
		r.between()
	}
	return e, err
}

func TestInterleavedWriterConflicts(t *testing.T) {
	ctx := context.Background()
	terms := repository.NewSQLiteSet(testutil.NewSQLite(t)).Terms
	other := NewManager(model.TermKind, terms, nop)

	created, err := other.Create(ctx, "Fall 2013")
	require.NoError(t, err)

	racing := func(between func()) *Manager[*model.Term] {
		return NewManager(model.TermKind, &interleavedRepo[*model.Term]{Repository: terms, between: between}, nop)
	}

	// Both writers hold version 1; the one that commits second loses.
	m := racing(func() {
		_, err := other.Update(ctx, created, "Writer A")
		require.NoError(t, err)
	})
	_, err = m.Update(ctx, created, "Writer B")
	var vc *failure.VersionConflictError
	require.ErrorAs(t, err, &vc)
	assert.Equal(t, 1, vc.Expected)
	assert.Equal(t, 2, vc.Actual)

	stored, err := other.FindByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Writer A", stored.Name)
	assert.Equal(t, 2, stored.Version)

	m = racing(func() {
		_, err := other.Update(ctx, stored, "Bumped")
		require.NoError(t, err)
	})
	err = m.Delete(ctx, created.UUID, 2)
	require.ErrorAs(t, err, &vc)
	assert.Equal(t, 3, vc.Actual)

	_, err = other.FindByUUID(ctx, created.UUID)
	require.NoError(t, err)

	// Without a version the later writer wins.
	unchecked := model.TermKind.New()
	unchecked.UUID = created.UUID
	m = racing(func() {
		_, err := other.Update(ctx, unchecked, "Unchecked A")
		require.NoError(t, err)
	})
	updated, err := m.Update(ctx, unchecked, "Unchecked B")
	require.NoError(t, err)
	assert.Equal(t, "Unchecked B", updated.Name)
	assert.Equal(t, 5, updated.Version)
}

func TestStudentUpdateKeepsEmailFill(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteManagers(t).Students

	s, err := m.Create(ctx, "Alice", func(s *model.Student) { s.EmailAddress = "alice@example.com" })
	require.NoError(t, err)

	updated, err := m.Update(ctx, s, "Alice B", func(s *model.Student) { s.EmailAddress = "ab@example.com" })
	require.NoError(t, err)
	assert.Equal(t, "ab@example.com", updated.EmailAddress)
	assert.Equal(t, "alice@example.com", s.EmailAddress)
}

func TestTestRunPurgeRemovesOnlyTaggedData(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteManagers(t)

	run, err := m.TestRuns.Create(ctx, "integration")
	require.NoError(t, err)

	tagged, err := m.Terms.CreateForTesting(ctx, "Test Term", run)
	require.NoError(t, err)
	_, err = m.Sections.CreateForTesting(ctx, "Test Section", run, func(s *model.Section) { s.TermID = &tagged.ID })
	require.NoError(t, err)
	_, err = m.Students.CreateForTesting(ctx, "Test Student", run)
	require.NoError(t, err)
	kept, err := m.Terms.Create(ctx, "Fall 2013")
	require.NoError(t, err)

	removed, err := m.TestRuns.Purge(ctx, run.UUID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	terms, err := m.Terms.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, kept.UUID, terms[0].UUID)

	_, err = m.TestRuns.FindByUUID(ctx, run.UUID)
	assert.True(t, failure.IsObjectNotFound(err))

	_, err = m.TestRuns.Purge(ctx, run.UUID)
	assert.True(t, failure.IsObjectNotFound(err))
}

func TestPurgeCreatedBefore(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteManagers(t)

	run, err := m.TestRuns.Create(ctx, "old")
	require.NoError(t, err)
	_, err = m.Classrooms.CreateForTesting(ctx, "Lab", run)
	require.NoError(t, err)

	n, err := m.TestRuns.PurgeCreatedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = m.TestRuns.PurgeCreatedBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rooms, err := m.Classrooms.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	runs, err := m.TestRuns.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
