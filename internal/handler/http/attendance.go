package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	CurrentStatus(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Team(w http.ResponseWriter, r *http.Request)
	All(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	AutoApprove(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	clockService    attendance.ClockService
	approvalService attendance.ApprovalService
	calendarService calendar.CalendarService
	reportService   report.ReportService
	// defaultCutoff is used by AutoApprove when no cutoff is given.
	defaultCutoff func() time.Time
	now           func() time.Time
}

func NewAttendanceHandler(
	clockService attendance.ClockService,
	approvalService attendance.ApprovalService,
	calendarService calendar.CalendarService,
	reportService report.ReportService,
	defaultCutoff func() time.Time,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		clockService:    clockService,
		approvalService: approvalService,
		calendarService: calendarService,
		reportService:   reportService,
		defaultCutoff:   defaultCutoff,
		now:             time.Now,
	}
}

// principal returns the authenticated caller or writes 401.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingPrincipal)
	}
	return p, ok
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.ClockInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.clockService.ClockIn(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.ClockOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.clockService.ClockOut(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// CurrentStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	req := attendance.CurrentStatusRequest{Timezone: r.URL.Query().Get("timezone")}
	if force := r.URL.Query().Get("force"); force != "" {
		v, err := strconv.ParseBool(force)
		if err != nil {
			response.BadRequest(w, "invalid force parameter", nil)
			return
		}
		req.Force = v
	}

	result, err := h.clockService.CurrentStatus(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Monthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	now := h.now().UTC()
	req := calendar.MonthlyAttendanceRequest{
		UserID:   query.Get("user_id"),
		Month:    int(now.Month()),
		Year:     now.Year(),
		Timezone: query.Get("timezone"),
	}

	if monthStr := query.Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			response.BadRequest(w, "invalid month parameter", nil)
			return
		}
		req.Month = month
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		req.Year = year
	}

	result, err := h.calendarService.MonthlyAttendance(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// History implements AttendanceHandler. Without start_date and end_date it
// lists the last 30 days up to today.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	today := dateutil.LocalDay(h.now(), time.UTC)
	req := calendar.HistoryRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if req.EndDate == "" {
		req.EndDate = dateutil.Format(today)
	}
	if req.StartDate == "" {
		req.StartDate = dateutil.Format(today.AddDate(0, 0, -29))
	}

	result, err := h.calendarService.History(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) queueRequest(r *http.Request) report.QueueRequest {
	req := report.QueueRequest{Date: r.URL.Query().Get("date")}
	if req.Date == "" {
		req.Date = dateutil.Format(dateutil.LocalDay(h.now(), time.UTC))
	}
	if teamID := r.URL.Query().Get("team_id"); teamID != "" {
		req.TeamID = &teamID
	}
	return req
}

// Team implements AttendanceHandler.
func (h *attendanceHandlerImpl) Team(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.TeamAttendance(r.Context(), caller, h.queueRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// All implements AttendanceHandler.
func (h *attendanceHandlerImpl) All(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.AllAttendance(r.Context(), caller, h.queueRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.ApproveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.approvalService.Approve(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance "+string(req.ApprovalStatus)+" successfully", result)
}

// AutoApprove implements AttendanceHandler. The route is restricted to the
// sweep permission by middleware.
func (h *attendanceHandlerImpl) AutoApprove(w http.ResponseWriter, r *http.Request) {
	cutoff := h.defaultCutoff()
	if raw := r.URL.Query().Get("cutoff"); raw != "" {
		parsed, err := dateutil.Parse(raw)
		if err != nil {
			response.BadRequest(w, "cutoff must be in YYYY-MM-DD format", nil)
			return
		}
		cutoff = parsed
	}

	n, err := h.approvalService.AutoApprovePending(r.Context(), cutoff)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.AutoApproveResponse{Cutoff: dateutil.Format(cutoff), Updated: n})
}
