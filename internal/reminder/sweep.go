package reminder

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrSweepRunning is returned when a sweep trigger overlaps one still in
// progress; the trigger is skipped rather than queued.
var ErrSweepRunning = errors.New("reminder sweep already running")

// maxConcurrentDispatches bounds how many notifications are in flight at
// once during a sweep.
const maxConcurrentDispatches = 4

// SweepStats summarizes one sweep.
type SweepStats struct {
	Selected   int // records matching the window
	Dispatched int // notifications sent and marked
	Failed     int // dispatch or mark failures, left unmarked
	Skipped    int // address resolution failures, left unmarked
}

// Sweep selects every job whose reminder falls in the current UTC day window
// [start of day, start of next day) and has not been sent, and dispatches one
// notification per record. Records are independent: one failure never aborts
// the batch. Failed or skipped records stay unmarked, so a sweep later the
// same day retries them; once the day window has passed they are no longer
// selected. That fire-once-per-day-window policy is deliberate.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) (SweepStats, error) {
	if !s.sweepMu.TryLock() {
		return SweepStats{}, ErrSweepRunning
	}
	defer s.sweepMu.Unlock()

	utc := now.UTC()
	windowStart := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 0, 1)

	due, err := s.jobs.DueReminders(ctx, windowStart, windowEnd)
	if err != nil {
		return SweepStats{}, err
	}

	stats := SweepStats{Selected: len(due)}
	if len(due) == 0 {
		return stats, nil
	}
	log.Printf("[SWEEP] %d due reminders in [%s, %s)", len(due),
		windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDispatches)

	for i := range due {
		job := due[i]
		g.Go(func() error {
			to, err := s.addresses.EmailForUser(ctx, job.UserID)
			if err != nil {
				log.Printf("[SWEEP] skip job %s: %v", job.ID, err)
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}

			if err := s.dispatcher.SendReminder(to, &job); err != nil {
				log.Printf("[SWEEP] dispatch failed for job %s: %v", job.ID, err)
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return nil
			}

			if err := s.jobs.MarkReminderSent(ctx, job.ID); err != nil {
				// Sent but unmarked: the record may be retried by a later
				// sweep in the same window.
				log.Printf("[SWEEP] mark failed for job %s: %v", job.ID, err)
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			stats.Dispatched++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait() // per-record errors are absorbed above
	return stats, nil
}
