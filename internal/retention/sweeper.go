package retention

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oakmund/jsonvault/internal/item"
)

// Logger defines the logging interface used by the Sweeper.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Result summarises a single sweep run.
type Result struct {
	Scanned  int
	Purged   int
	Failed   int
	Duration time.Duration
}

// Config holds the dependencies and policy for a Sweeper.
type Config struct {
	// Store is reconciled whenever a file is purged.
	Store *item.Store

	// Repository is the source of item files and their ages.
	Repository *item.Repository

	// MaxAge is the retention threshold; files older than this are purged.
	MaxAge time.Duration

	// Location is the fixed timezone midnight is computed in.
	Location *time.Location

	// Logger is optional; a no-op logger is used when nil.
	Logger Logger
}

// Sweeper purges aged item files once per calendar day.
//
// It follows the same lifecycle pattern as the other long-lived components:
//
//	sweeper, err := retention.New(cfg)
//	sweeper.Start(ctx)
//	defer sweeper.Close()
type Sweeper struct {
	store  *item.Store
	repo   *item.Repository
	maxAge time.Duration
	loc    *time.Location
	logger Logger

	// onPurge is invoked after an item is removed from both stores.
	onPurge func(id string)

	// onSweep is invoked after each completed run.
	onSweep func(Result)

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Sweeper. It does not schedule anything until Start().
func New(cfg Config) (*Sweeper, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("item store is required")
	}
	if cfg.Repository == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	if cfg.MaxAge <= 0 {
		return nil, fmt.Errorf("max age must be positive")
	}
	if cfg.Location == nil {
		return nil, fmt.Errorf("timezone location is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Sweeper{
		store:  cfg.Store,
		repo:   cfg.Repository,
		maxAge: cfg.MaxAge,
		loc:    cfg.Location,
		logger: logger,
	}, nil
}

// SetOnPurge sets a callback invoked with each purged item ID.
// Used to wire audit and event publishing without coupling this package
// to them. Must be set before Start().
func (s *Sweeper) SetOnPurge(callback func(id string)) {
	s.onPurge = callback
}

// SetOnSweep sets a callback invoked with the result of each run.
// Must be set before Start().
func (s *Sweeper) SetOnSweep(callback func(Result)) {
	s.onSweep = callback
}

// Start launches the sweep loop in a background goroutine.
//
// The first run fires at the next midnight in the configured timezone;
// subsequent runs are rescheduled after each sweep completes so that sweep
// duration never stacks runs.
func (s *Sweeper) Start(ctx context.Context) {
	var loopCtx context.Context
	loopCtx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	first := time.Until(s.nextRun(time.Now()))
	s.logger.Info("retention sweeper scheduled",
		"first_run_in", first.Round(time.Second).String(),
		"timezone", s.loc.String(),
		"max_age", s.maxAge.String(),
	)

	go s.loop(loopCtx, first)
}

// loop waits for each scheduled midnight, runs a sweep, and reschedules.
func (s *Sweeper) loop(ctx context.Context, first time.Duration) {
	defer close(s.done)

	timer := time.NewTimer(first)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			result := s.RunOnce()
			s.logger.Info("retention sweep complete",
				"scanned", result.Scanned,
				"purged", result.Purged,
				"failed", result.Failed,
				"duration_ms", result.Duration.Milliseconds(),
			)
			if s.onSweep != nil {
				s.onSweep(result)
			}
			timer.Reset(time.Until(s.nextRun(time.Now())))
		}
	}
}

// Close stops the sweep loop and waits for it to exit.
// Safe to call if Start() was never called.
func (s *Sweeper) Close() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	<-s.done
	return nil
}

// RunOnce scans every item file and purges those older than the threshold.
//
// A failure on one file is logged and counted but never aborts the rest of
// the scan. Exported so operators and tests can trigger a sweep directly.
func (s *Sweeper) RunOnce() Result {
	start := time.Now()
	var result Result

	ids, err := s.repo.ListIDs()
	if err != nil {
		s.logger.Error("retention sweep: listing items", "error", err)
		result.Failed++
		result.Duration = time.Since(start)
		return result
	}

	for _, id := range ids {
		result.Scanned++

		age, err := s.repo.Age(id)
		if err != nil {
			if errors.Is(err, item.ErrItemNotFound) {
				// File disappeared between list and stat; nothing to purge.
				continue
			}
			s.logger.Warn("retention sweep: stat failed", "id", id, "error", err)
			result.Failed++
			continue
		}

		if age <= s.maxAge {
			continue
		}

		if err := s.repo.Delete(id); err != nil {
			s.logger.Warn("retention sweep: delete failed", "id", id, "error", err)
			result.Failed++
			continue
		}
		s.store.Delete(id)
		result.Purged++

		s.logger.Debug("retention sweep: purged item", "id", id, "age", age.Round(time.Second).String())
		if s.onPurge != nil {
			s.onPurge(id)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// nextRun returns the next midnight after now in the configured timezone.
// time.Date normalises day+1, which keeps the boundary at 00:00 across
// DST transitions where adding 24 hours would not.
func (s *Sweeper) nextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.loc)
}
