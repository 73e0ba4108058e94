// Package service implements the daily-task use cases that sit between the
// HTTP handlers and the task store: create, list, toggle, and delete, each
// followed by a best-effort lifecycle event publish.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/events"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

// UserDirectory resolves users against the auth service.
type UserDirectory interface {
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUsersByGroup(ctx context.Context, groupID int64) ([]*domain.User, error)
}

// EventPublisher publishes lifecycle events to the event log.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// TaskView is a task decorated with its assignee's username for listing.
// AssigneeUsername is empty when the task is unassigned or the lookup
// failed; a directory hiccup must not break the list.
type TaskView struct {
	Task             *domain.DailyTask
	AssigneeUsername string
}

// DailyTaskService implements the daily-task mutations and queries. Every
// successful mutation emits exactly one lifecycle event; the task store is
// the source of truth, so a publish failure is logged and swallowed rather
// than rolled back, leaving the archive stale for that task until its next
// event.
type DailyTaskService struct {
	tasks     store.DailyTaskStore
	directory UserDirectory
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewDailyTaskService creates a DailyTaskService.
func NewDailyTaskService(
	tasks store.DailyTaskStore,
	directory UserDirectory,
	publisher EventPublisher,
	logger *slog.Logger,
) (*DailyTaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if directory == nil {
		return nil, fmt.Errorf("user directory cannot be nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &DailyTaskService{
		tasks:     tasks,
		directory: directory,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "daily_task_service")),
		now:       time.Now,
	}, nil
}

// WithNow overrides the service's clock. Test hook.
func (s *DailyTaskService) WithNow(now func() time.Time) *DailyTaskService {
	s.now = now
	return s
}

// Create adds a daily task for the acting user's group, starting not done
// on the current day, and emits a Created event with the post-creation
// state.
func (s *DailyTaskService) Create(
	ctx context.Context,
	ident Identity,
	description string,
	assigneeUserID *int64,
) (*domain.DailyTask, error) {
	user, err := s.resolveGroupUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	today := domain.DateOf(s.now())
	task, err := domain.NewDailyTask(description, today, *user.GroupID, assigneeUserID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create daily task: %w", err)
	}

	s.publishBestEffort(ctx, events.NewCreated(task, today))
	return task, nil
}

// List returns the tasks of the acting user's group, decorated with
// assignee usernames where the directory can resolve them.
func (s *DailyTaskService) List(ctx context.Context, ident Identity) ([]TaskView, error) {
	user, err := s.resolveGroupUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByGroup(ctx, *user.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily tasks: %w", err)
	}

	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := TaskView{Task: task}
		if task.AssigneeUserID != nil {
			assignee, err := s.directory.GetUserByID(ctx, *task.AssigneeUserID)
			if err != nil {
				s.logger.Warn("could not resolve assignee for daily task",
					"task_id", task.ID,
					"assignee_user_id", *task.AssigneeUserID,
					"error", err)
			} else {
				view.AssigneeUsername = assignee.Username
			}
		}
		views = append(views, view)
	}

	return views, nil
}

// ToggleDone flips the task's completion flag and emits an Updated event
// with the post-toggle state.
func (s *DailyTaskService) ToggleDone(ctx context.Context, id int64) (*domain.DailyTask, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.ToggleDone()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update daily task %d: %w", id, err)
	}

	s.publishBestEffort(ctx, events.NewUpdated(task, domain.DateOf(s.now())))
	return task, nil
}

// Delete removes the task and emits a Deleted event carrying the
// pre-deletion snapshot. Archive entries the task already produced are
// retained downstream.
func (s *DailyTaskService) Delete(ctx context.Context, id int64) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete daily task %d: %w", id, err)
	}

	s.publishBestEffort(ctx, events.NewDeleted(task, domain.DateOf(s.now())))
	return nil
}

// resolveGroupUser resolves the acting user and requires group membership.
func (s *DailyTaskService) resolveGroupUser(ctx context.Context, ident Identity) (*domain.User, error) {
	if !ident.Valid() {
		return nil, ErrMissingIdentity
	}

	user, err := s.directory.GetUserByLogin(ctx, ident.Login)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %q: %w", ident.Login, err)
	}

	if !user.InGroup() {
		return nil, ErrNotInGroup
	}

	return user, nil
}

// publishBestEffort publishes the event and logs on failure. The store
// mutation has already committed; the archive stays stale for this task
// until a later event for the same ID arrives.
func (s *DailyTaskService) publishBestEffort(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Error("lifecycle event publish failed after committed mutation",
			"kind", string(e.Kind()),
			"task_id", e.Payload().TaskID,
			"error", err)
	}
}
