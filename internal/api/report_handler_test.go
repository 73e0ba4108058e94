package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouptaskmanager/taskflow/internal/api/middleware"
	"github.com/grouptaskmanager/taskflow/internal/report"
	"github.com/grouptaskmanager/taskflow/internal/service"
)

// fakeReportService is a canned-response ReportService.
type fakeReportService struct {
	userStats  *report.UserStats
	userErr    error
	groupStats []*report.UserStats
	groupErr   error

	gotIdentity service.Identity
	gotDays     int
}

func (f *fakeReportService) CurrentUserStats(ctx context.Context, ident service.Identity, daysBack int) (*report.UserStats, error) {
	f.gotIdentity = ident
	f.gotDays = daysBack
	return f.userStats, f.userErr
}

func (f *fakeReportService) GroupStats(ctx context.Context, ident service.Identity, daysBack int) ([]*report.UserStats, error) {
	f.gotIdentity = ident
	f.gotDays = daysBack
	return f.groupStats, f.groupErr
}

func newReportRouter(svc ReportService) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.IdentityMiddleware)
	NewReportHandler(svc, testLogger()).RegisterRoutes(r)
	return r
}

func TestCurrentUserStats(t *testing.T) {
	svc := &fakeReportService{userStats: &report.UserStats{
		UserID:         3,
		Username:       "Alice",
		TotalTasks:     4,
		CompletedTasks: 3,
		CompletionRate: 0.75,
		DoneTasks:      []string{"Water plants"},
		NotDoneTasks:   []string{"Feed cat"},
	}}
	router := newReportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/stats/current-user?days=14", nil)
	req.Header.Set(middleware.IdentityHeader, "alice")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", svc.gotIdentity.Login)
	assert.Equal(t, 14, svc.gotDays)

	var resp report.UserStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.UserID)
	assert.InDelta(t, 0.75, resp.CompletionRate, 1e-9)
	assert.Equal(t, []string{"Water plants"}, resp.DoneTasks)
}

func TestCurrentUserStatsDefaultsDays(t *testing.T) {
	svc := &fakeReportService{userStats: &report.UserStats{}}
	router := newReportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/stats/current-user", nil)
	req.Header.Set(middleware.IdentityHeader, "alice")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, svc.gotDays)
}

func TestCurrentUserStatsBadDays(t *testing.T) {
	router := newReportRouter(&fakeReportService{})

	for _, query := range []string{"?days=abc", "?days=0", "?days=-7"} {
		req := httptest.NewRequest(http.MethodGet, "/reports/stats/current-user"+query, nil)
		req.Header.Set(middleware.IdentityHeader, "alice")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %s", query)
	}
}

func TestCurrentUserStatsWithoutIdentity(t *testing.T) {
	svc := &fakeReportService{userErr: service.ErrMissingIdentity}
	router := newReportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/stats/current-user", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGroupStats(t *testing.T) {
	svc := &fakeReportService{groupStats: []*report.UserStats{
		{UserID: 3, Username: "Alice"},
		{UserID: 4, Username: "Bella"},
	}}
	router := newReportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/stats/all-users", nil)
	req.Header.Set(middleware.IdentityHeader, "alice")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []*report.UserStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestGroupStatsGrouplessUser(t *testing.T) {
	svc := &fakeReportService{groupErr: service.ErrNotInGroup}
	router := newReportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/stats/all-users", nil)
	req.Header.Set(middleware.IdentityHeader, "nomad")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
