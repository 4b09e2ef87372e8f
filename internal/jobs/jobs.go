// Package jobs runs the periodic maintenance tasks of the booking service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 5 * time.Minute

// SessionCleaner removes expired and revoked sessions
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// Completer marks confirmed appointments before a cutoff as completed
type Completer interface {
	CompletePast(ctx context.Context, before time.Time) (int64, error)
}

// VisitorPruner forgets idle rate limiter entries
type VisitorPruner interface {
	Cleanup(now time.Time) int
}

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
	now  func() time.Time
}

// New registers the jobs enabled by cfg. Nil dependencies skip their job.
func New(cfg utils.JobsConfig, sessions SessionCleaner, completer Completer, pruner VisitorPruner, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		log:  log.With(zap.String("component", "jobs")),
		now:  time.Now,
	}

	if sessions != nil && cfg.SessionCleanupSpec != "" {
		if _, err := s.cron.AddFunc(cfg.SessionCleanupSpec, func() { s.CleanSessions(sessions) }); err != nil {
			return nil, fmt.Errorf("schedule session cleanup %q: %w", cfg.SessionCleanupSpec, err)
		}
	}

	if completer != nil && cfg.CompletionSweep {
		if _, err := s.cron.AddFunc(cfg.CompletionSpec, func() { s.CompletePast(completer) }); err != nil {
			return nil, fmt.Errorf("schedule completion sweep %q: %w", cfg.CompletionSpec, err)
		}
	}

	if pruner != nil {
		if _, err := s.cron.AddFunc("@every 10m", func() { s.PruneVisitors(pruner) }); err != nil {
			return nil, fmt.Errorf("schedule visitor pruning: %w", err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out")
	}
}

func (s *Scheduler) CleanSessions(sessions SessionCleaner) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := sessions.CleanExpiredSessions(ctx)
	if err != nil {
		s.log.Error("Session cleanup failed", zap.Error(err))
		return
	}
	s.log.Info("Session cleanup finished", zap.Int64("removed", removed))
}

// CompletePast completes confirmed appointments dated before today
func (s *Scheduler) CompletePast(completer Completer) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	completed, err := completer.CompletePast(ctx, today)
	if err != nil {
		s.log.Error("Completion sweep failed", zap.Error(err))
		return
	}
	s.log.Info("Completion sweep finished", zap.Int64("completed", completed))
}

func (s *Scheduler) PruneVisitors(pruner VisitorPruner) {
	if removed := pruner.Cleanup(s.now()); removed > 0 {
		s.log.Debug("Rate limiter visitors pruned", zap.Int("removed", removed))
	}
}
