// Package reminder implements the daily follow-up reminder job: a scheduler
// that fires once per calendar day at a configured local time, and a sweep
// that selects due reminders in the current UTC day window and dispatches one
// notification per record.
package reminder

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobtrack/internal/config"
	"github.com/jonathan/jobtrack/internal/types"
)

// JobSource supplies due reminder records and marks them dispatched.
// *db.DB satisfies this.
type JobSource interface {
	DueReminders(ctx context.Context, windowStart, windowEnd time.Time) ([]types.Job, error)
	MarkReminderSent(ctx context.Context, jobID uuid.UUID) error
}

// AddressResolver resolves a user's notification address. *db.DB satisfies
// this.
type AddressResolver interface {
	EmailForUser(ctx context.Context, userID uuid.UUID) (string, error)
}

// Dispatcher sends one notification per record. *email.Service satisfies
// this.
type Dispatcher interface {
	SendReminder(to string, job *types.Job) error
}

// Scheduler owns the daily timer and the sweep mutual-exclusion guard.
type Scheduler struct {
	jobs       JobSource
	addresses  AddressResolver
	dispatcher Dispatcher
	cfg        *config.ReminderConfig

	sweepMu sync.Mutex // held for the duration of one sweep
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(jobs JobSource, addresses AddressResolver, dispatcher Dispatcher, cfg *config.ReminderConfig) *Scheduler {
	return &Scheduler{
		jobs:       jobs,
		addresses:  addresses,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// NextRun returns the next scheduled fire time strictly after now, at the
// configured wall-clock time in the configured timezone.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.cfg.Location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.cfg.Hour, s.cfg.Minute, 0, 0, s.cfg.Location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run fires a sweep once per day at the configured time until ctx is
// cancelled. It blocks; callers start it on its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("[REMINDER] scheduler started, daily at %02d:%02d %s",
		s.cfg.Hour, s.cfg.Minute, s.cfg.Location)

	for {
		next := s.NextRun(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[REMINDER] scheduler stopped")
			return
		case now := <-timer.C:
			stats, err := s.Sweep(ctx, now)
			if err != nil {
				log.Printf("[REMINDER] sweep failed: %v", err)
				continue
			}
			log.Printf("[REMINDER] sweep done: %d selected, %d dispatched, %d failed, %d skipped",
				stats.Selected, stats.Dispatched, stats.Failed, stats.Skipped)
		}
	}
}
