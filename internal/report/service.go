// Package report computes completion statistics over the task archive for
// the reporting API: per-user done/not-done breakdowns and group-wide
// summaries across a trailing window of days.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grouptaskmanager/taskflow/internal/domain"
	"github.com/grouptaskmanager/taskflow/internal/service"
	"github.com/grouptaskmanager/taskflow/internal/store"
)

// DefaultDaysBack is the reporting window used when the caller does not ask
// for a specific one.
const DefaultDaysBack = 7

// UserDirectory resolves users against the auth service.
type UserDirectory interface {
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUsersByGroup(ctx context.Context, groupID int64) ([]*domain.User, error)
}

// UserStats is one user's archive summary over a window of days.
type UserStats struct {
	UserID         int64    `json:"userId"`
	Username       string   `json:"username"`
	TotalTasks     int64    `json:"totalTasks"`
	CompletedTasks int64    `json:"completedTasks"`
	CompletionRate float64  `json:"completionRate"`
	DoneTasks      []string `json:"doneTasks"`
	NotDoneTasks   []string `json:"notDoneTasks"`
}

// Service answers reporting queries from the archive entry store.
type Service struct {
	entries   store.ArchiveEntryStore
	directory UserDirectory
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a report Service.
func NewService(
	entries store.ArchiveEntryStore,
	directory UserDirectory,
	logger *slog.Logger,
) (*Service, error) {
	if entries == nil {
		return nil, fmt.Errorf("archive entry store cannot be nil")
	}
	if directory == nil {
		return nil, fmt.Errorf("user directory cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Service{
		entries:   entries,
		directory: directory,
		logger:    logger.With(slog.String("component", "report_service")),
		now:       time.Now,
	}, nil
}

// WithNow overrides the service's clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// CurrentUserStats computes the acting user's stats over the trailing
// daysBack days (today inclusive). A daysBack of zero or less means
// DefaultDaysBack.
func (s *Service) CurrentUserStats(ctx context.Context, ident service.Identity, daysBack int) (*UserStats, error) {
	if !ident.Valid() {
		return nil, service.ErrMissingIdentity
	}

	user, err := s.directory.GetUserByLogin(ctx, ident.Login)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %q: %w", ident.Login, err)
	}

	return s.statsFor(ctx, user.ID, user.Username, daysBack)
}

// GroupStats computes stats for every user that appears as an assignee on
// the acting user's group's archive entries, over the trailing daysBack
// days. Users the auth service can no longer resolve are reported with an
// empty username rather than dropped.
func (s *Service) GroupStats(ctx context.Context, ident service.Identity, daysBack int) ([]*UserStats, error) {
	if !ident.Valid() {
		return nil, service.ErrMissingIdentity
	}

	user, err := s.directory.GetUserByLogin(ctx, ident.Login)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %q: %w", ident.Login, err)
	}
	if !user.InGroup() {
		return nil, service.ErrNotInGroup
	}

	assignees, err := s.entries.DistinctAssigneesByGroup(ctx, *user.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group assignees: %w", err)
	}

	// Resolve usernames in one round trip where possible; assignees who
	// have left the group fall back to per-ID lookup.
	names := make(map[int64]string)
	members, err := s.directory.GetUsersByGroup(ctx, *user.GroupID)
	if err != nil {
		s.logger.Warn("could not list group members, resolving assignees individually",
			"group_id", *user.GroupID,
			"error", err)
	} else {
		for _, m := range members {
			names[m.ID] = m.Username
		}
	}

	stats := make([]*UserStats, 0, len(assignees))
	for _, id := range assignees {
		name, ok := names[id]
		if !ok {
			if resolved, err := s.directory.GetUserByID(ctx, id); err != nil {
				s.logger.Warn("could not resolve assignee for report",
					"user_id", id,
					"error", err)
			} else {
				name = resolved.Username
			}
		}

		userStats, err := s.statsFor(ctx, id, name, daysBack)
		if err != nil {
			return nil, err
		}
		stats = append(stats, userStats)
	}

	return stats, nil
}

// statsFor computes one user's stats over the window ending today.
func (s *Service) statsFor(ctx context.Context, userID int64, username string, daysBack int) (*UserStats, error) {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}

	today := domain.DateOf(s.now())
	start := today.AddDays(-(daysBack - 1))

	total, completed, err := s.entries.CountByAssigneeSince(ctx, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to count archive entries for user %d: %w", userID, err)
	}

	entries, err := s.entries.ListByAssigneeBetween(ctx, userID, start, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive entries for user %d: %w", userID, err)
	}

	stats := &UserStats{
		UserID:         userID,
		Username:       username,
		TotalTasks:     total,
		CompletedTasks: completed,
		DoneTasks:      []string{},
		NotDoneTasks:   []string{},
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total)
	}

	for _, entry := range entries {
		if entry.WasDone {
			stats.DoneTasks = append(stats.DoneTasks, entry.Description)
		} else {
			stats.NotDoneTasks = append(stats.NotDoneTasks, entry.Description)
		}
	}

	return stats, nil
}
