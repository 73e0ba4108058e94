package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/grouptaskmanager/taskflow/internal/api/shared"
	"github.com/grouptaskmanager/taskflow/internal/report"
	"github.com/grouptaskmanager/taskflow/internal/service"
)

// ReportService is the slice of the report service the handler needs.
type ReportService interface {
	CurrentUserStats(ctx context.Context, ident service.Identity, daysBack int) (*report.UserStats, error)
	GroupStats(ctx context.Context, ident service.Identity, daysBack int) ([]*report.UserStats, error)
}

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReportHandler")
	}

	return &ReportHandler{
		reportService: reportService,
		logger:        logger.With(slog.String("component", "report_handler")),
	}
}

// RegisterRoutes mounts the reporting routes on the router.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/reports/stats", func(r chi.Router) {
		r.Get("/current-user", h.CurrentUserStats)
		r.Get("/all-users", h.GroupStats)
	})
}

// CurrentUserStats handles GET /reports/stats/current-user requests. The
// optional "days" query parameter sets the trailing window; it defaults
// service-side when absent.
func (h *ReportHandler) CurrentUserStats(w http.ResponseWriter, r *http.Request) {
	days, ok := h.daysParam(w, r)
	if !ok {
		return
	}

	ident := shared.GetIdentity(r.Context())
	stats, err := h.reportService.CurrentUserStats(r.Context(), ident, days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GroupStats handles GET /reports/stats/all-users requests, returning one
// summary per assignee in the acting user's group.
func (h *ReportHandler) GroupStats(w http.ResponseWriter, r *http.Request) {
	days, ok := h.daysParam(w, r)
	if !ok {
		return
	}

	ident := shared.GetIdentity(r.Context())
	stats, err := h.reportService.GroupStats(r.Context(), ident, days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// daysParam parses the optional "days" query parameter, writing a 400 on a
// malformed value. Zero means "use the service default".
func (h *ReportHandler) daysParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, true
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		h.logger.Debug("invalid days query parameter", slog.String("value", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid days parameter")
		return 0, false
	}
	return days, true
}
