package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

// ArchiveEntryStore implements store.ArchiveEntryStore on PostgreSQL.
// The upsert leans on the unique (daily_task_id, date) index so applying
// the same event twice, or a later event for the same key, both resolve to
// a single row with the last-applied state.
type ArchiveEntryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewArchiveEntryStore creates a new ArchiveEntryStore.
func NewArchiveEntryStore(db store.DBTX, logger *slog.Logger) *ArchiveEntryStore {
	return &ArchiveEntryStore{
		db:     db,
		logger: logger.With(slog.String("component", "archive_entry_store")),
	}
}

// Upsert inserts or overwrites the entry for its (task, date) key.
func (s *ArchiveEntryStore) Upsert(ctx context.Context, entry *domain.ArchiveEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO daily_task_entries (daily_task_id, date, description, was_done, group_id, assignee_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (daily_task_id, date) DO UPDATE
		SET description = EXCLUDED.description,
		    was_done = EXCLUDED.was_done,
		    assignee_user_id = EXCLUDED.assignee_user_id
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		entry.TaskID,
		entry.Date,
		entry.Description,
		entry.WasDone,
		entry.GroupID,
		assigneeArg(entry.AssigneeUserID),
	).Scan(&entry.ID)
	if err != nil {
		s.logger.Error("failed to upsert archive entry",
			"task_id", entry.TaskID,
			"date", entry.Date.String(),
			"error", err)
		return fmt.Errorf("failed to upsert archive entry for task %d on %s: %w",
			entry.TaskID, entry.Date, MapError(err))
	}

	return nil
}

// GetByTaskAndDate retrieves the entry for one (task, date) key.
func (s *ArchiveEntryStore) GetByTaskAndDate(ctx context.Context, taskID int64, date domain.Date) (*domain.ArchiveEntry, error) {
	query := `
		SELECT id, daily_task_id, date, description, was_done, group_id, assignee_user_id
		FROM daily_task_entries
		WHERE daily_task_id = $1 AND date = $2
	`

	entry, err := scanArchiveEntry(s.db.QueryRowContext(ctx, query, taskID, date))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrArchiveEntryNotFound
		}
		return nil, fmt.Errorf("failed to get archive entry for task %d on %s: %w",
			taskID, date, MapError(err))
	}

	return entry, nil
}

// ListByGroup retrieves all entries for a group.
func (s *ArchiveEntryStore) ListByGroup(ctx context.Context, groupID int64) ([]*domain.ArchiveEntry, error) {
	query := `
		SELECT id, daily_task_id, date, description, was_done, group_id, assignee_user_id
		FROM daily_task_entries
		WHERE group_id = $1
		ORDER BY date, daily_task_id
	`

	return s.queryEntries(ctx, query, groupID)
}

// ListByAssigneeBetween retrieves a user's entries with dates in [start, end].
func (s *ArchiveEntryStore) ListByAssigneeBetween(ctx context.Context, userID int64, start, end domain.Date) ([]*domain.ArchiveEntry, error) {
	query := `
		SELECT id, daily_task_id, date, description, was_done, group_id, assignee_user_id
		FROM daily_task_entries
		WHERE assignee_user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, daily_task_id
	`

	return s.queryEntries(ctx, query, userID, start, end)
}

// CountByAssigneeSince returns the user's total and completed entry counts
// for dates on or after start.
func (s *ArchiveEntryStore) CountByAssigneeSince(ctx context.Context, userID int64, start domain.Date) (total, completed int64, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE was_done)
		FROM daily_task_entries
		WHERE assignee_user_id = $1 AND date >= $2
	`

	err = s.db.QueryRowContext(ctx, query, userID, start).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count archive entries for user %d: %w", userID, MapError(err))
	}

	return total, completed, nil
}

// DistinctAssigneesByGroup returns the user IDs that appear as assignees on
// a group's entries.
func (s *ArchiveEntryStore) DistinctAssigneesByGroup(ctx context.Context, groupID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT assignee_user_id
		FROM daily_task_entries
		WHERE group_id = $1 AND assignee_user_id IS NOT NULL
		ORDER BY assignee_user_id
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignees for group %d: %w", groupID, MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan assignee row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignee rows: %w", err)
	}

	return ids, nil
}

func (s *ArchiveEntryStore) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.ArchiveEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query archive entries", "error", err)
		return nil, fmt.Errorf("failed to query archive entries: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.ArchiveEntry
	for rows.Next() {
		entry, err := scanArchiveEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive entry row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archive entry rows: %w", err)
	}

	return entries, nil
}

func scanArchiveEntry(row rowScanner) (*domain.ArchiveEntry, error) {
	var entry domain.ArchiveEntry
	var assignee sql.NullInt64

	err := row.Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.Date,
		&entry.Description,
		&entry.WasDone,
		&entry.GroupID,
		&assignee,
	)
	if err != nil {
		return nil, err
	}

	if assignee.Valid {
		entry.AssigneeUserID = &assignee.Int64
	}

	return &entry, nil
}
