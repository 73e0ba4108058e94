package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

// DailyTaskStore implements store.DailyTaskStore on PostgreSQL.
type DailyTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDailyTaskStore creates a new DailyTaskStore.
func NewDailyTaskStore(db store.DBTX, logger *slog.Logger) *DailyTaskStore {
	return &DailyTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "daily_task_store")),
	}
}

// Create persists a new task and fills in its generated ID.
func (s *DailyTaskStore) Create(ctx context.Context, task *domain.DailyTask) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO daily_tasks (description, done, current_day, group_id, assignee_user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		task.Description,
		task.Done,
		task.CurrentDay,
		task.GroupID,
		assigneeArg(task.AssigneeUserID),
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error("failed to create daily task",
			"group_id", task.GroupID,
			"error", err)
		return fmt.Errorf("failed to create daily task: %w", MapError(err))
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (s *DailyTaskStore) GetByID(ctx context.Context, id int64) (*domain.DailyTask, error) {
	query := `
		SELECT id, description, done, current_day, group_id, assignee_user_id
		FROM daily_tasks
		WHERE id = $1
	`

	task, err := scanDailyTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrDailyTaskNotFound
		}
		return nil, fmt.Errorf("failed to get daily task %d: %w", id, MapError(err))
	}

	return task, nil
}

// ListByGroup retrieves all tasks belonging to a group.
func (s *DailyTaskStore) ListByGroup(ctx context.Context, groupID int64) ([]*domain.DailyTask, error) {
	query := `
		SELECT id, description, done, current_day, group_id, assignee_user_id
		FROM daily_tasks
		WHERE group_id = $1
		ORDER BY id
	`

	return s.queryTasks(ctx, query, groupID)
}

// ListStale retrieves every task whose current day predates the given day.
func (s *DailyTaskStore) ListStale(ctx context.Context, before domain.Date) ([]*domain.DailyTask, error) {
	query := `
		SELECT id, description, done, current_day, group_id, assignee_user_id
		FROM daily_tasks
		WHERE current_day < $1
	`

	return s.queryTasks(ctx, query, before)
}

// Update overwrites the task's mutable fields.
func (s *DailyTaskStore) Update(ctx context.Context, task *domain.DailyTask) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE daily_tasks
		SET description = $1, done = $2, current_day = $3, assignee_user_id = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Description,
		task.Done,
		task.CurrentDay,
		assigneeArg(task.AssigneeUserID),
		task.ID,
	)
	if err != nil {
		s.logger.Error("failed to update daily task",
			"task_id", task.ID,
			"error", err)
		return fmt.Errorf("failed to update daily task %d: %w", task.ID, MapError(err))
	}

	return CheckRowsAffected(result, store.ErrDailyTaskNotFound)
}

// Delete removes the task.
func (s *DailyTaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM daily_tasks WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete daily task",
			"task_id", id,
			"error", err)
		return fmt.Errorf("failed to delete daily task %d: %w", id, MapError(err))
	}

	return CheckRowsAffected(result, store.ErrDailyTaskNotFound)
}

// queryTasks runs a SELECT over daily_tasks and scans the rows.
func (s *DailyTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.DailyTask, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query daily tasks", "error", err)
		return nil, fmt.Errorf("failed to query daily tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.DailyTask
	for rows.Next() {
		task, err := scanDailyTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily task rows: %w", err)
	}

	return tasks, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDailyTask(row rowScanner) (*domain.DailyTask, error) {
	var task domain.DailyTask
	var assignee sql.NullInt64

	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Done,
		&task.CurrentDay,
		&task.GroupID,
		&assignee,
	)
	if err != nil {
		return nil, err
	}

	if assignee.Valid {
		task.AssigneeUserID = &assignee.Int64
	}

	return &task, nil
}

// assigneeArg converts an optional assignee to a nullable query argument.
func assigneeArg(assignee *int64) sql.NullInt64 {
	if assignee == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *assignee, Valid: true}
}
