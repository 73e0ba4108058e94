package store

import (
	"context"

	"github.com/grouptaskmanager/taskflow/internal/domain"
)

// DailyTaskStore defines the canonical per-group daily task state. It is
// shared by the request handlers and the rollover scheduler with no
// application-level locking on top; concurrent writers to the same task
// resolve last-write-wins.
type DailyTaskStore interface {
	// Create persists a new task and fills in its generated ID.
	Create(ctx context.Context, task *domain.DailyTask) error

	// GetByID retrieves a task by its ID.
	// Returns ErrDailyTaskNotFound if no task exists with the ID.
	GetByID(ctx context.Context, id int64) (*domain.DailyTask, error)

	// ListByGroup retrieves all tasks belonging to a group.
	ListByGroup(ctx context.Context, groupID int64) ([]*domain.DailyTask, error)

	// ListStale retrieves every task whose current day predates the given
	// day, in unspecified order. This is the rollover selection predicate:
	// tasks already stamped with the given day are excluded, which is what
	// makes a repeated rollover run a no-op.
	ListStale(ctx context.Context, before domain.Date) ([]*domain.DailyTask, error)

	// Update overwrites the task's mutable fields.
	// Returns ErrDailyTaskNotFound if no task exists with the ID.
	Update(ctx context.Context, task *domain.DailyTask) error

	// Delete removes the task.
	// Returns ErrDailyTaskNotFound if no task exists with the ID.
	Delete(ctx context.Context, id int64) error
}
