package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

// TestRunStore is the persistence the TestRunService needs.
type TestRunStore interface {
	Create(ctx context.Context, run *model.TestRun) error
	FindByUUID(ctx context.Context, uuid string) (*model.TestRun, error)
	List(ctx context.Context) ([]model.TestRun, error)
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.TestRun, error)
	Delete(ctx context.Context, id int) error
}

// Purger removes the rows of one entity kind tagged with a test run.
type Purger interface {
	PurgeTestRun(ctx context.Context, run *model.TestRun) (int64, error)
}

// TestRunService manages test run markers and the bulk cleanup of the
// data tagged with them.
type TestRunService struct {
	repo    TestRunStore
	purgers []Purger
	log     zerolog.Logger
}

// NewTestRunService creates a TestRunService. Purgers run in the given order.
func NewTestRunService(repo TestRunStore, log zerolog.Logger, purgers ...Purger) *TestRunService {
	return &TestRunService{
		repo:    repo,
		purgers: purgers,
		log:     log.With().Str("component", "test_run_service").Logger(),
	}
}

// Create registers a new test run.
func (s *TestRunService) Create(ctx context.Context, name string) (*model.TestRun, error) {
	run := &model.TestRun{UUID: uuid.NewString(), Name: name}
	if err := s.repo.Create(ctx, run); err != nil {
		s.log.Info().Err(err).Str("name", name).Msg("internal error creating test run")
		return nil, failure.NewPersistence("unable to create test run", err, "")
	}
	return run, nil
}

// FindByUUID returns the test run with the given external identifier.
func (s *TestRunService) FindByUUID(ctx context.Context, id string) (*model.TestRun, error) {
	run, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, failure.NewObjectNotFound(id)
		}
		s.log.Info().Err(err).Str("uuid", id).Msg("internal error retrieving test run")
		return nil, failure.NewPersistence("unable to find test run", err, id)
	}
	return run, nil
}

// FindAll returns all test runs.
func (s *TestRunService) FindAll(ctx context.Context) ([]model.TestRun, error) {
	runs, err := s.repo.List(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("internal error listing test runs")
		return nil, failure.NewPersistence("unable to list test runs", err, "")
	}
	return runs, nil
}

// Purge deletes all data tagged with the test run, then the run itself,
// and returns the number of entity rows removed.
func (s *TestRunService) Purge(ctx context.Context, id string) (int64, error) {
	run, err := s.FindByUUID(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.purge(ctx, run)
}

// PurgeCreatedBefore purges every test run created before cutoff and
// returns how many runs were removed.
func (s *TestRunService) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	runs, err := s.repo.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		s.log.Info().Err(err).Msg("internal error listing stale test runs")
		return 0, failure.NewPersistence("unable to list test runs", err, "")
	}

	purged := 0
	for i := range runs {
		if _, err := s.purge(ctx, &runs[i]); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

func (s *TestRunService) purge(ctx context.Context, run *model.TestRun) (int64, error) {
	var total int64
	for _, p := range s.purgers {
		n, err := p.PurgeTestRun(ctx, run)
		if err != nil {
			return total, err
		}
		total += n
	}

	if err := s.repo.Delete(ctx, run.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Info().Err(err).Str("uuid", run.UUID).Msg("internal error deleting test run")
		return total, failure.NewPersistence("unable to delete test run", err, run.UUID)
	}

	s.log.Info().Str("uuid", run.UUID).Int64("rows", total).Msg("test run purged")
	return total, nil
}
