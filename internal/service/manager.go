package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

// Manager implements create/find/update/delete for one entity kind on top
// of a Repository, translating store faults and missing rows into the
// failure taxonomy.
type Manager[E model.Entity[E]] struct {
	kind model.Kind[E]
	repo repository.Repository[E]
	log  zerolog.Logger
}

// NewManager creates a Manager for kind.
func NewManager[E model.Entity[E]](kind model.Kind[E], repo repository.Repository[E], log zerolog.Logger) *Manager[E] {
	return &Manager[E]{
		kind: kind,
		repo: repo,
		log:  log.With().Str("component", kind.Name+"_manager").Logger(),
	}
}

// Kind returns the entity kind served by the manager.
func (m *Manager[E]) Kind() model.Kind[E] {
	return m.kind
}

// Create persists a new entity named name. fill may set kind-specific
// fields before the entity is saved.
func (m *Manager[E]) Create(ctx context.Context, name string, fill ...func(E)) (E, error) {
	return m.create(ctx, name, nil, fill)
}

// CreateForTesting is Create with the entity tagged by run so it can be
// purged with the rest of the test data.
func (m *Manager[E]) CreateForTesting(ctx context.Context, name string, run *model.TestRun, fill ...func(E)) (E, error) {
	return m.create(ctx, name, run, fill)
}

func (m *Manager[E]) create(ctx context.Context, name string, run *model.TestRun, fill []func(E)) (E, error) {
	e := m.kind.New()
	rec := e.Base()
	rec.UUID = uuid.NewString()
	rec.Name = name
	if run != nil {
		id := run.ID
		rec.TestRunID = &id
	}
	for _, f := range fill {
		f(e)
	}

	actual, err := m.repo.Save(ctx, e)
	if err != nil {
		m.logFault(err).Str("name", name).Msg("internal error creating " + m.kind.Name)
		var zero E
		return zero, failure.NewPersistence("unable to create "+m.kind.Name, err, "")
	}
	return actual, nil
}

// Update renames the stored entity identified by existing's UUID and
// returns the canonical updated entity. existing itself is left untouched.
// A non-zero existing version must match the stored version.
func (m *Manager[E]) Update(ctx context.Context, existing E, name string, fill ...func(E)) (E, error) {
	var zero E
	id := existing.Base().UUID

	actual, err := m.repo.FindByUUID(ctx, id)
	if err != nil {
		return zero, m.lookupError("update", id, err)
	}
	if err := checkVersion(id, existing.Base().Version, actual.Base().Version); err != nil {
		m.log.Debug().Str("uuid", id).Err(err).Msg("stale " + m.kind.Name)
		return zero, err
	}

	actual.Base().Name = name
	// Zero saves unconditionally, otherwise the store re-checks the version.
	actual.Base().Version = existing.Base().Version
	for _, f := range fill {
		f(actual)
	}

	updated, err := m.repo.Save(ctx, actual)
	if err != nil {
		return zero, m.writeError("update", id, err)
	}
	return updated, nil
}

// Delete removes the entity identified by id. A non-zero version must
// match the stored version.
func (m *Manager[E]) Delete(ctx context.Context, id string, version int) error {
	actual, err := m.repo.FindByUUID(ctx, id)
	if err != nil {
		return m.lookupError("delete", id, err)
	}
	if err := checkVersion(id, version, actual.Base().Version); err != nil {
		m.log.Debug().Str("uuid", id).Err(err).Msg("stale " + m.kind.Name)
		return err
	}

	actual.Base().Version = version
	if err := m.repo.Delete(ctx, actual); err != nil {
		return m.writeError("delete", id, err)
	}
	return nil
}

// FindAll returns every stored entity of the kind.
func (m *Manager[E]) FindAll(ctx context.Context) ([]E, error) {
	items, err := m.repo.FindAll(ctx)
	if err != nil {
		m.logFault(err).Msg("internal error listing " + m.kind.Name)
		return nil, failure.NewPersistence("unable to list "+m.kind.Name, err, "")
	}
	return items, nil
}

// FindByID returns the entity with the given surrogate id.
func (m *Manager[E]) FindByID(ctx context.Context, id int) (E, error) {
	e, err := m.repo.FindOne(ctx, id)
	if err != nil {
		var zero E
		if errors.Is(err, repository.ErrNotFound) {
			m.log.Debug().Int("id", id).Msg("did not find " + m.kind.Name)
			return zero, failure.NewObjectNotFound("")
		}
		m.logFault(err).Int("id", id).Msg("internal error retrieving " + m.kind.Name)
		return zero, failure.NewPersistence("unable to find "+m.kind.Name+" by id", err, "")
	}
	return e, nil
}

// FindByUUID returns the entity with the given external identifier.
func (m *Manager[E]) FindByUUID(ctx context.Context, id string) (E, error) {
	e, err := m.repo.FindByUUID(ctx, id)
	if err != nil {
		var zero E
		return zero, m.lookupError("find", id, err)
	}
	return e, nil
}

// PurgeTestRun deletes every entity of the kind tagged with run.
func (m *Manager[E]) PurgeTestRun(ctx context.Context, run *model.TestRun) (int64, error) {
	n, err := m.repo.DeleteByTestRun(ctx, run.ID)
	if err != nil {
		m.logFault(err).Str("test_run", run.UUID).Msg("internal error purging " + m.kind.Name)
		return 0, failure.NewPersistence("unable to purge "+m.kind.Name, err, run.UUID)
	}
	return n, nil
}

func (m *Manager[E]) lookupError(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		m.log.Debug().Str("uuid", id).Msg("did not find " + m.kind.Name)
		return failure.NewObjectNotFound(id)
	}
	m.logFault(err).Str("uuid", id).Msg("internal error retrieving " + m.kind.Name)
	return failure.NewPersistence("unable to "+op+" "+m.kind.Name, err, id)
}

// writeError maps a failed update or delete. Not-found and version conflicts
// here mean another writer got in after the lookup.
func (m *Manager[E]) writeError(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		m.log.Debug().Str("uuid", id).Msg(m.kind.Name + " removed concurrently")
		return failure.NewObjectNotFound(id)
	}
	if failure.IsVersionConflict(err) {
		m.log.Debug().Str("uuid", id).Err(err).Msg("stale " + m.kind.Name)
		return err
	}
	m.logFault(err).Str("uuid", id).Str("op", op).Msg("internal error writing " + m.kind.Name)
	return failure.NewPersistence("unable to "+op+" "+m.kind.Name, err, id)
}

// logFault picks debug for test-injected faults, warn for rejected writes
// and info otherwise.
func (m *Manager[E]) logFault(err error) *zerolog.Event {
	switch {
	case errors.Is(err, failure.ErrInjectedFault):
		return m.log.Debug().Err(err)
	case errors.Is(err, repository.ErrConstraint):
		return m.log.Warn().Err(err)
	default:
		return m.log.Info().Err(err)
	}
}

func checkVersion(id string, expected, actual int) error {
	if expected != 0 && expected != actual {
		return &failure.VersionConflictError{UUID: id, Expected: expected, Actual: actual}
	}
	return nil
}
