// Package archive consumes the daily-task lifecycle event stream and
// maintains the historical archive: one entry per (task, date), updated
// with last-applied-wins semantics so redelivered and reordered events
// converge to the same state.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/eventlog"
	"github.com/grouptaskmanager/taskflow/internal/events"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

// Builder applies lifecycle events to the archive entry store. It commits a
// message's offset only after the resulting write is durable, so a crash
// between write and commit causes a redelivery, which the idempotent upsert
// absorbs.
//
// Deleted events are recorded in the log output only: the archive keeps the
// history a task produced before its deletion.
type Builder struct {
	entries  store.ArchiveEntryStore
	consumer eventlog.Consumer
	logger   *slog.Logger
}

// NewBuilder creates a Builder reading from consumer and writing to entries.
func NewBuilder(
	entries store.ArchiveEntryStore,
	consumer eventlog.Consumer,
	logger *slog.Logger,
) (*Builder, error) {
	if entries == nil {
		return nil, fmt.Errorf("archive entry store cannot be nil")
	}
	if consumer == nil {
		return nil, fmt.Errorf("event consumer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Builder{
		entries:  entries,
		consumer: consumer,
		logger:   logger.With(slog.String("component", "archive_builder")),
	}, nil
}

// Run consumes the event stream until the context is cancelled or the log
// ends. Undecodable messages are logged and committed so they are not
// redelivered forever; a failed archive write leaves the message
// uncommitted and stops the loop, so the message is redelivered on restart.
func (b *Builder) Run(ctx context.Context) error {
	for {
		msg, err := b.consumer.Fetch(ctx)
		if err != nil {
			if errors.Is(err, eventlog.ErrEndOfLog) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to fetch from event log: %w", err)
		}

		if err := b.handle(ctx, msg); err != nil {
			return err
		}
	}
}

// handle decodes and applies one message, committing its offset only after
// the apply succeeded.
func (b *Builder) handle(ctx context.Context, msg eventlog.Message) error {
	event, err := events.Unmarshal(msg.Value)
	if err != nil {
		// Poison message. Skipping loses at most one archive write for one
		// task-day; a later event for the same key repairs it.
		b.logger.Error("skipping undecodable lifecycle event",
			"key", msg.Key,
			"error", err)
		if err := b.consumer.Commit(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit poison message: %w", err)
		}
		return nil
	}

	if err := event.Accept(ctx, b); err != nil {
		return fmt.Errorf("failed to apply %s event for task %d: %w",
			event.Kind(), event.Payload().TaskID, err)
	}

	if err := b.consumer.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to commit applied message: %w", err)
	}
	return nil
}

// HandleCreated upserts the archive entry for the task's current day.
func (b *Builder) HandleCreated(ctx context.Context, e events.Created) error {
	return b.upsert(ctx, e.Fields)
}

// HandleUpdated upserts the archive entry for the task's current day.
func (b *Builder) HandleUpdated(ctx context.Context, e events.Updated) error {
	return b.upsert(ctx, e.Fields)
}

// HandleDeleted records the deletion in the log and nothing else. Entries
// the task already produced stay in the archive.
func (b *Builder) HandleDeleted(ctx context.Context, e events.Deleted) error {
	b.logger.Info("daily task deleted, retaining its archive entries",
		"task_id", e.TaskID,
		"task_date", e.TaskDate.String())
	return nil
}

// HandleDayReset upserts the closed-out day's final state.
func (b *Builder) HandleDayReset(ctx context.Context, e events.DayReset) error {
	return b.upsert(ctx, e.Fields)
}

// upsert writes the entry for (TaskID, TaskDate) from the event payload.
func (b *Builder) upsert(ctx context.Context, f events.Fields) error {
	entry := &domain.ArchiveEntry{
		TaskID:         f.TaskID,
		Date:           f.TaskDate,
		Description:    f.Description,
		WasDone:        f.Done,
		GroupID:        f.GroupID,
		AssigneeUserID: f.AssigneeUserID,
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	if err := b.entries.Upsert(ctx, entry); err != nil {
		return err
	}

	b.logger.Debug("archive entry upserted",
		"task_id", entry.TaskID,
		"date", entry.Date.String(),
		"was_done", entry.WasDone)
	return nil
}
