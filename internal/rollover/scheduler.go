// Package rollover implements the day-boundary reset of daily tasks: a
// catch-up pass at startup plus one pass per day at a fixed wall-clock
// time. Each pass publishes a DayReset event from the pre-mutation
// snapshot, then clears the done flag and advances the day stamp.
package rollover

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/events"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

// EventPublisher publishes lifecycle events to the event log.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Scheduler runs the daily rollover. It is safe to run a pass any number
// of times per day: the stale-task selection excludes tasks already
// stamped with today's date, so a repeated pass finds nothing to do.
//
// A live toggle racing a rollover pass over the same task is not guarded;
// whichever write lands last wins. The store has no application-level
// locking across the two paths.
type Scheduler struct {
	tasks     store.DailyTaskStore
	publisher EventPublisher
	logger    *slog.Logger
	runAt     timeOfDay
	now       func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// timeOfDay is a wall-clock run time.
type timeOfDay struct {
	hour   int
	minute int
}

// New creates a Scheduler that runs daily at runAt ("15:04" form).
func New(
	tasks store.DailyTaskStore,
	publisher EventPublisher,
	runAt string,
	logger *slog.Logger,
) (*Scheduler, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	parsed, err := time.Parse("15:04", runAt)
	if err != nil {
		return nil, fmt.Errorf("invalid rollover run time %q: %w", runAt, err)
	}

	return &Scheduler{
		tasks:     tasks,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "rollover_scheduler")),
		runAt:     timeOfDay{hour: parsed.Hour(), minute: parsed.Minute()},
		now:       time.Now,
	}, nil
}

// WithNow overrides the scheduler's clock. Test hook.
func (s *Scheduler) WithNow(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start runs the startup catch-up pass, then schedules one pass per day at
// the configured time until Stop is called.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.logger.Info("running startup rollover pass")
		if err := s.Run(ctx); err != nil {
			s.logger.Error("startup rollover pass failed", "error", err)
		}

		for {
			wait := s.untilNextRun(s.now())
			s.logger.Info("next rollover pass scheduled", "in", wait.String())

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				if err := s.Run(ctx); err != nil {
					s.logger.Error("scheduled rollover pass failed", "error", err)
				}
			}
		}
	}()
}

// Stop cancels the schedule and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Run executes one rollover pass: every task whose day predates today gets
// its pre-reset state published as a DayReset event, then is reset to
// today with the done flag cleared.
//
// Failures are per-task: a failed publish is logged and the reset still
// proceeds (accepting the loss of that day's archive entry), and a failed
// store write is logged and the pass moves on to the remaining tasks.
// There is no compensating retry; the next pass is the retry.
func (s *Scheduler) Run(ctx context.Context) error {
	today := domain.DateOf(s.now())

	stale, err := s.tasks.ListStale(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to select stale daily tasks: %w", err)
	}

	s.logger.Info("found stale daily tasks to roll over",
		"count", len(stale),
		"today", today.String())

	reset := 0
	for _, task := range stale {
		// Publish before mutating: if the publish is the step that fails,
		// the pre-image is only lost for this one day, never corrupted.
		if err := s.publisher.Publish(ctx, events.NewDayReset(task, today)); err != nil {
			s.logger.Error("failed to publish day reset event",
				"task_id", task.ID,
				"task_date", task.CurrentDay.String(),
				"error", err)
		}

		task.ResetForDay(today)
		if err := s.tasks.Update(ctx, task); err != nil {
			s.logger.Error("failed to reset daily task",
				"task_id", task.ID,
				"error", err)
			continue
		}
		reset++
	}

	s.logger.Info("rollover pass complete",
		"reset", reset,
		"stale", len(stale))
	return nil
}

// untilNextRun returns the duration until the next wall-clock run time
// strictly after now.
func (s *Scheduler) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.runAt.hour, s.runAt.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
