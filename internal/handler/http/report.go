package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

type ReportHandler interface {
	// Attendance statistics per user for a date range or reporting period.
	Reports(w http.ResponseWriter, r *http.Request)

	// Same report as CSV.
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func reportRequest(r *http.Request) report.ReportRequest {
	query := r.URL.Query()
	req := report.ReportRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Period:    query.Get("period"),
	}
	if teamID := query.Get("team_id"); teamID != "" {
		req.TeamID = &teamID
	}
	return req
}

// Reports handles GET /attendance/reports
func (h *reportHandlerImpl) Reports(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.Reports(r.Context(), caller, reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /attendance/reports/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	rep, err := h.reportService.Export(r.Context(), caller, reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-report-%s-to-%s.csv",
		dateutil.Format(rep.Period.StartDate), dateutil.Format(rep.Period.EndDate))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := report.WriteCSV(w, rep); err != nil {
		// Headers are already sent.
		slog.Error("Failed to write CSV export", "error", err)
	}
}
