// Package authclient is the HTTP client for the auth service's internal
// user-lookup API, used to resolve the acting user's group before task
// mutations and to decorate task lists with assignee names.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/grouptaskmanager/taskflow/internal/config"
	"github.com/grouptaskmanager/taskflow/internal/domain"
)

// ErrUserNotFound is returned when the auth service has no user for the
// given login or ID.
var ErrUserNotFound = errors.New("user not found")

// ErrAuthServiceUnavailable is returned when the auth service cannot be
// reached or answers with a server error. Callers treat this as a
// transient dependency failure.
var ErrAuthServiceUnavailable = errors.New("auth service unavailable")

// Client resolves users against the auth service's internal API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client from the auth configuration.
func New(cfg config.AuthConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.ServiceURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With(slog.String("component", "auth_client")),
	}
}

// GetUserByLogin resolves a user by login.
func (c *Client) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	var user domain.User
	path := "/api/internal/users/by-login/" + url.PathEscape(login)
	if err := c.getJSON(ctx, path, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID resolves a user by ID.
func (c *Client) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	path := "/api/internal/users/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, path, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByGroup lists the users belonging to a group.
func (c *Client) GetUsersByGroup(ctx context.Context, groupID int64) ([]*domain.User, error) {
	var users []*domain.User
	path := "/api/internal/users/by-group/" + strconv.FormatInt(groupID, 10)
	if err := c.getJSON(ctx, path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build auth service request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("auth service request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrAuthServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode >= 500:
		c.logger.Error("auth service returned server error",
			"path", path,
			"status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrAuthServiceUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected auth service response: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode auth service response: %w", err)
	}

	return nil
}
