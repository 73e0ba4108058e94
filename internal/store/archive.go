package store

import (
	"context"

	"github.com/grouptaskmanager/taskflow/internal/domain"
)

// ArchiveEntryStore holds the historical per-(task, date) records derived
// from the event stream. It is written only by the archive builder; the
// upsert is idempotent, so multiple builder instances and redelivered
// events converge to the same state.
type ArchiveEntryStore interface {
	// Upsert inserts the entry, or overwrites the mutable fields
	// (description, was_done, assignee) of the existing entry with the same
	// (task, date) key. Last applied wins. The write is durably committed
	// when Upsert returns.
	Upsert(ctx context.Context, entry *domain.ArchiveEntry) error

	// GetByTaskAndDate retrieves the entry for one (task, date) key.
	// Returns ErrArchiveEntryNotFound if absent.
	GetByTaskAndDate(ctx context.Context, taskID int64, date domain.Date) (*domain.ArchiveEntry, error)

	// ListByGroup retrieves all entries for a group.
	ListByGroup(ctx context.Context, groupID int64) ([]*domain.ArchiveEntry, error)

	// ListByAssigneeBetween retrieves a user's entries with dates in
	// [start, end], ordered by date.
	ListByAssigneeBetween(ctx context.Context, userID int64, start, end domain.Date) ([]*domain.ArchiveEntry, error)

	// CountByAssigneeSince returns the user's total and completed entry
	// counts for dates on or after start.
	CountByAssigneeSince(ctx context.Context, userID int64, start domain.Date) (total, completed int64, err error)

	// DistinctAssigneesByGroup returns the user IDs that appear as
	// assignees on a group's entries.
	DistinctAssigneesByGroup(ctx context.Context, groupID int64) ([]int64, error)
}
