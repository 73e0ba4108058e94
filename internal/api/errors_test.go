package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grouptaskmanager/taskflow/internal/authclient"
	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/service"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrMissingIdentity, http.StatusUnauthorized},
		{authclient.ErrUserNotFound, http.StatusUnauthorized},
		{service.ErrNotInGroup, http.StatusForbidden},
		{store.ErrDailyTaskNotFound, http.StatusNotFound},
		{store.ErrArchiveEntryNotFound, http.StatusNotFound},
		{domain.ErrTaskDescriptionEmpty, http.StatusBadRequest},
		{domain.ErrTaskGroupInvalid, http.StatusBadRequest},
		{authclient.ErrAuthServiceUnavailable, http.StatusServiceUnavailable},
		{errors.New("something else"), http.StatusInternalServerError},
		// Wrapped errors map the same as bare ones.
		{fmt.Errorf("failed to toggle: %w", store.ErrDailyTaskNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err), "error %v", tc.err)
	}
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	err := fmt.Errorf("pq: connection refused host=10.0.0.3: %w", errors.New("dial tcp"))
	msg := GetSafeErrorMessage(err)

	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "10.0.0.3")
}

func TestGetSafeErrorMessageNil(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'CreateTaskRequest.Description' Error:Field validation for 'Description' failed on the 'required' tag")
	assert.Equal(t, "Invalid Description: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
