package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/grouptaskmanager/taskflow/internal/authclient"
	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/service"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Identity errors
	case errors.Is(err, service.ErrMissingIdentity),
		errors.Is(err, authclient.ErrUserNotFound):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotInGroup):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrDailyTaskNotFound),
		errors.Is(err, store.ErrArchiveEntryNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrTaskDescriptionEmpty),
		errors.Is(err, domain.ErrTaskGroupInvalid),
		errors.Is(err, domain.ErrTaskDayZero),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Dependency errors
	case errors.Is(err, authclient.ErrAuthServiceUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrMissingIdentity):
		return "Missing caller identity"

	case errors.Is(err, authclient.ErrUserNotFound):
		return "Unknown user"

	case errors.Is(err, service.ErrNotInGroup):
		return "You are not a member of any group"

	case errors.Is(err, store.ErrDailyTaskNotFound):
		return "Daily task not found"

	case errors.Is(err, store.ErrArchiveEntryNotFound):
		return "Archive entry not found"

	case errors.Is(err, domain.ErrTaskDescriptionEmpty):
		return "Description is required"

	case errors.Is(err, domain.ErrTaskGroupInvalid),
		errors.Is(err, domain.ErrTaskDayZero),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	case errors.Is(err, authclient.ErrAuthServiceUnavailable):
		return "User service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateTaskRequest.Description' Error:Field
		// validation for 'Description' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt":
		return "must be positive"
	default:
		return "validation failed"
	}
}
