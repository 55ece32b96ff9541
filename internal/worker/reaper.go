package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultReaperInterval = 10 * time.Minute
	reaperLockTTL         = time.Minute
)

// TestRunPurger removes test runs created before cutoff and reports how
// many were removed.
type TestRunPurger interface {
	PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// PurgeObserver is told how many test runs each pass removed.
type PurgeObserver interface {
	TestRunsPurged(n int)
}

// Reaper periodically purges test runs older than the retention window.
type Reaper struct {
	purger    TestRunPurger
	locker    Locker
	observer  PurgeObserver
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

func NewReaper(purger TestRunPurger, locker Locker, observer PurgeObserver, interval, retention time.Duration, log zerolog.Logger) *Reaper {
	if interval <= 0 {
		interval = DefaultReaperInterval
	}
	return &Reaper{
		purger:    purger,
		locker:    locker,
		observer:  observer,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		log:       log.With().Str("component", "test_run_reaper").Logger(),
	}
}

// Start runs a pass every interval until ctx is cancelled. A zero retention
// disables the reaper.
func (r *Reaper) Start(ctx context.Context) {
	if r.retention <= 0 {
		r.log.Info().Msg("Reaper disabled")
		return
	}
	r.log.Info().
		Dur("interval", r.interval).
		Dur("retention", r.retention).
		Msg("Reaper started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("Reaper stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Error().Err(err).Msg("Reaper pass failed")
			}
		}
	}
}

// RunOnce executes a single pass. It returns zero without error when another
// holder owns the lock.
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	release, err := r.locker.TryLock(ctx, reaperLockTTL)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			r.log.Debug().Msg("Reaper lock held elsewhere, skipping")
			return 0, nil
		}
		return 0, err
	}
	defer release()

	cutoff := r.now().Add(-r.retention)
	n, err := r.purger.PurgeCreatedBefore(ctx, cutoff)
	if n > 0 && r.observer != nil {
		r.observer.TestRunsPurged(n)
	}
	if err != nil {
		return n, err
	}
	if n > 0 {
		r.log.Info().Int("test_runs", n).Time("cutoff", cutoff).Msg("Purged stale test runs")
	}
	return n, nil
}
