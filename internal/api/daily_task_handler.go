// Package api provides HTTP handlers for the API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/grouptaskmanager/taskflow/internal/api/shared"
	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/platform/logger"
	"github.com/grouptaskmanager/taskflow/internal/service"
)

// DailyTaskService is the slice of the task service the handler needs.
type DailyTaskService interface {
	Create(ctx context.Context, ident service.Identity, description string, assigneeUserID *int64) (*domain.DailyTask, error)
	List(ctx context.Context, ident service.Identity) ([]service.TaskView, error)
	ToggleDone(ctx context.Context, id int64) (*domain.DailyTask, error)
	Delete(ctx context.Context, id int64) error
}

// CreateTaskRequest represents the request body for creating a daily task
type CreateTaskRequest struct {
	Description    string `json:"description" validate:"required,max=500"`
	AssigneeUserID *int64 `json:"assigneeUserId" validate:"omitempty,gt=0"`
}

// TaskResponse represents the response data for a daily task
type TaskResponse struct {
	ID               int64       `json:"id"`
	Description      string      `json:"description"`
	Done             bool        `json:"done"`
	CurrentDay       domain.Date `json:"currentDay"`
	GroupID          int64       `json:"groupId"`
	AssigneeUserID   *int64      `json:"assigneeUserId"`
	AssigneeUsername string      `json:"assigneeUsername,omitempty"`
}

// DailyTaskHandler handles daily-task HTTP requests
type DailyTaskHandler struct {
	taskService DailyTaskService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewDailyTaskHandler creates a new DailyTaskHandler
func NewDailyTaskHandler(taskService DailyTaskService, logger *slog.Logger) *DailyTaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DailyTaskHandler")
	}

	return &DailyTaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "daily_task_handler")),
	}
}

// RegisterRoutes mounts the daily-task routes on the router.
func (h *DailyTaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/daily-tasks", func(r chi.Router) {
		r.Post("/", h.CreateTask)
		r.Get("/", h.ListTasks)
		r.Post("/{id}/toggle", h.ToggleTask)
		r.Delete("/{id}", h.DeleteTask)
	})
}

// CreateTask handles POST /daily-tasks requests.
// The task lands in the acting user's group, not done, stamped with today.
func (h *DailyTaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("failed to decode create task request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	ident := shared.GetIdentity(r.Context())
	task, err := h.taskService.Create(r.Context(), ident, req.Description, req.AssigneeUserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("daily task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("group_id", task.GroupID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task, ""))
}

// ListTasks handles GET /daily-tasks requests, returning the acting user's
// group's tasks with assignee usernames where known.
func (h *DailyTaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ident := shared.GetIdentity(r.Context())

	views, err := h.taskService.List(r.Context(), ident)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]TaskResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, taskToResponse(view.Task, view.AssigneeUsername))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ToggleTask handles POST /daily-tasks/{id}/toggle requests.
func (h *DailyTaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleDone(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, ""))
}

// DeleteTask handles DELETE /daily-tasks/{id} requests.
func (h *DailyTaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID extracts the {id} path parameter, writing a 400 on failure.
func (h *DailyTaskHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Debug("invalid task id in path", slog.String("value", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return 0, false
	}
	return id, true
}

// taskToResponse transforms a domain task into its response shape.
func taskToResponse(task *domain.DailyTask, assigneeUsername string) TaskResponse {
	return TaskResponse{
		ID:               task.ID,
		Description:      task.Description,
		Done:             task.Done,
		CurrentDay:       task.CurrentDay,
		GroupID:          task.GroupID,
		AssigneeUserID:   task.AssigneeUserID,
		AssigneeUsername: assigneeUsername,
	}
}
