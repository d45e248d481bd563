package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-jwt"
	adminID    = "0192a000-0000-7000-8000-000000000001"
	managerID  = "0192a000-0000-7000-8000-000000000002"
	employeeID = "0192a000-0000-7000-8000-000000000003"
)

// Stubs embed the service interface; calling a method that is not
// overridden panics, which fails the test.
type clockStub struct {
	attendance.ClockService
	clockIn       func(ctx context.Context, p auth.Principal, req attendance.ClockInRequest) (attendance.AttendanceResponse, error)
	currentStatus func(ctx context.Context, p auth.Principal, req attendance.CurrentStatusRequest) (attendance.CurrentStatusResponse, error)
}

func (s *clockStub) ClockIn(ctx context.Context, p auth.Principal, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	return s.clockIn(ctx, p, req)
}

func (s *clockStub) CurrentStatus(ctx context.Context, p auth.Principal, req attendance.CurrentStatusRequest) (attendance.CurrentStatusResponse, error) {
	return s.currentStatus(ctx, p, req)
}

type approvalStub struct {
	attendance.ApprovalService
	approve     func(ctx context.Context, p auth.Principal, req attendance.ApproveRequest) (attendance.AttendanceResponse, error)
	autoApprove func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (s *approvalStub) Approve(ctx context.Context, p auth.Principal, req attendance.ApproveRequest) (attendance.AttendanceResponse, error) {
	return s.approve(ctx, p, req)
}

func (s *approvalStub) AutoApprovePending(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.autoApprove(ctx, cutoff)
}

type calendarStub struct {
	calendar.CalendarService
	history func(ctx context.Context, p auth.Principal, req calendar.HistoryRequest) (calendar.HistoryResponse, error)
}

func (s *calendarStub) History(ctx context.Context, p auth.Principal, req calendar.HistoryRequest) (calendar.HistoryResponse, error) {
	return s.history(ctx, p, req)
}

type reportStub struct {
	report.ReportService
	export func(ctx context.Context, p auth.Principal, req report.ReportRequest) (report.Report, error)
	team   func(ctx context.Context, p auth.Principal, req report.QueueRequest) (report.QueueResponse, error)
}

func (s *reportStub) Export(ctx context.Context, p auth.Principal, req report.ReportRequest) (report.Report, error) {
	return s.export(ctx, p, req)
}

func (s *reportStub) TeamAttendance(ctx context.Context, p auth.Principal, req report.QueueRequest) (report.QueueResponse, error) {
	return s.team(ctx, p, req)
}

type holidayStub struct {
	holiday.HolidayService
	list func(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error)
}

func (s *holidayStub) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	return s.list(ctx, filter)
}

type testServer struct {
	router   *chi.Mux
	jwt      *jwt.JWTService
	clock    *clockStub
	approval *approvalStub
	calendar *calendarStub
	report   *reportStub
	holiday  *holidayStub
}

func newTestServer(t *testing.T, cfg RouterConfig) *testServer {
	t.Helper()
	s := &testServer{
		jwt:      jwt.NewJWTService(testSecret, time.Hour, 0),
		clock:    &clockStub{},
		approval: &approvalStub{},
		calendar: &calendarStub{},
		report:   &reportStub{},
		holiday:  &holidayStub{},
	}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := Handlers{
		Attendance: NewAttendanceHandler(s.clock, s.approval, s.calendar, s.report, func() time.Time { return dateutil.Day(2026, 10, 12) }),
		Report:     NewReportHandler(s.report),
		Holiday:    NewHolidayHandler(s.holiday),
	}
	s.router = NewRouter(s.jwt.JWTAuth(), handlers, cfg)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, userID string, role user.Role, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		token, _, err := s.jwt.GenerateAccessToken(userID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeEnvelope(t, w)
	errDetail, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object")
	return errDetail["code"].(string)
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	w := s.do(t, http.MethodGet, "/api/v1/attendance/current-status", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ClockInPassesPrincipal(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	var got auth.Principal
	s.clock.clockIn = func(ctx context.Context, p auth.Principal, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
		got = p
		assert.Equal(t, attendance.WorkLocationRemote, req.WorkLocation)
		return attendance.AttendanceResponse{ID: "a1", UserID: p.UserID, Status: string(attendance.StatusPresent)}, nil
	}

	w := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", employeeID, user.RoleEmployee,
		map[string]string{"work_location": "Remote", "timezone": "Asia/Jakarta"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, auth.Principal{UserID: employeeID, Role: user.RoleEmployee}, got)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))
	assert.Equal(t, "a1", resp["data"].(map[string]interface{})["id"])
}

func TestRouter_InvalidJSONIsBadRequest(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", strings.NewReader("not json"))
	token, _, err := s.jwt.GenerateAccessToken(employeeID, user.RoleEmployee)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ErrorKinds(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"conflict", attendance.ErrAlreadyClockedIn, http.StatusConflict, "CONFLICT"},
		{"validation", attendance.ErrInvalidWorkLocation, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", user.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unavailable", apperror.Unavailable("clock in", context.DeadlineExceeded), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestServer(t, RouterConfig{})
			s.clock.clockIn = func(ctx context.Context, p auth.Principal, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, c.err
			}

			w := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", employeeID, user.RoleEmployee,
				map[string]string{"work_location": "Onsite"})

			assert.Equal(t, c.wantCode, w.Code)
			assert.Equal(t, c.wantKind, errorCode(t, w))
		})
	}
}

func TestRouter_PermissionGates(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	cases := []struct {
		method string
		path   string
		role   user.Role
	}{
		{http.MethodGet, "/api/v1/attendance/all", user.RoleEmployee},
		{http.MethodGet, "/api/v1/attendance/all", user.RoleManager},
		{http.MethodGet, "/api/v1/attendance/team", user.RoleEmployee},
		{http.MethodPut, "/api/v1/attendance/approve", user.RoleEmployee},
		{http.MethodPost, "/api/v1/attendance/auto-approve", user.RoleManager},
		{http.MethodGet, "/api/v1/attendance/reports", user.RoleEmployee},
		{http.MethodPost, "/api/v1/holidays", user.RoleManager},
		{http.MethodDelete, "/api/v1/holidays/0192a000-0000-7000-8000-0000000000f1", user.RoleEmployee},
	}
	for _, c := range cases {
		w := s.do(t, c.method, c.path, employeeID, c.role, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s as %s", c.method, c.path, c.role)
	}
}

func TestRouter_TeamDefaultsToToday(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	s.report.team = func(ctx context.Context, p auth.Principal, req report.QueueRequest) (report.QueueResponse, error) {
		assert.NotEmpty(t, req.Date)
		require.NotNil(t, req.TeamID)
		assert.Equal(t, "0192a000-0000-7000-8000-0000000000a1", *req.TeamID)
		return report.QueueResponse{}, nil
	}

	w := s.do(t, http.MethodGet, "/api/v1/attendance/team?team_id=0192a000-0000-7000-8000-0000000000a1", managerID, user.RoleManager, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_HistoryRange(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	var got calendar.HistoryRequest
	s.calendar.history = func(ctx context.Context, p auth.Principal, req calendar.HistoryRequest) (calendar.HistoryResponse, error) {
		assert.Equal(t, employeeID, p.UserID)
		got = req
		return calendar.HistoryResponse{UserID: p.UserID}, nil
	}

	w := s.do(t, http.MethodGet, "/api/v1/attendance/history?start_date=2026-09-01&end_date=2026-09-15", employeeID, user.RoleEmployee, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, calendar.HistoryRequest{StartDate: "2026-09-01", EndDate: "2026-09-15"}, got)

	// Without bounds the last 30 days are listed.
	w = s.do(t, http.MethodGet, "/api/v1/attendance/history", employeeID, user.RoleEmployee, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	start, err := dateutil.Parse(got.StartDate)
	require.NoError(t, err)
	end, err := dateutil.Parse(got.EndDate)
	require.NoError(t, err)
	assert.Equal(t, 30, dateutil.DaysInclusive(start, end))
}

func TestRouter_AutoApproveCutoff(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	var cutoffs []time.Time
	s.approval.autoApprove = func(ctx context.Context, cutoff time.Time) (int64, error) {
		cutoffs = append(cutoffs, cutoff)
		return 4, nil
	}

	w := s.do(t, http.MethodPost, "/api/v1/attendance/auto-approve", adminID, user.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2026-10-12", data["cutoff"])
	assert.EqualValues(t, 4, data["updated"])

	w = s.do(t, http.MethodPost, "/api/v1/attendance/auto-approve?cutoff=2026-10-01", adminID, user.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendance/auto-approve?cutoff=yesterday", adminID, user.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []time.Time{dateutil.Day(2026, 10, 12), dateutil.Day(2026, 10, 1)}, cutoffs)
}

func TestRouter_ExportCSV(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	s.report.export = func(ctx context.Context, p auth.Principal, req report.ReportRequest) (report.Report, error) {
		assert.Equal(t, "2026-10", req.Period)
		return report.Report{
			Period: report.PeriodInfo{StartDate: dateutil.Day(2026, 9, 26), EndDate: dateutil.Day(2026, 10, 25)},
		}, nil
	}

	w := s.do(t, http.MethodGet, "/api/v1/attendance/reports/export?period=2026-10", managerID, user.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance-report-2026-09-26-to-2026-10-25.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Name,Role,Team,Department"))
}

func TestRouter_ClockRateLimit(t *testing.T) {
	s := newTestServer(t, RouterConfig{ClockRatePerMinute: 1})
	s.clock.clockIn = func(ctx context.Context, p auth.Principal, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
		return attendance.AttendanceResponse{}, nil
	}

	body := map[string]string{"work_location": "Onsite"}
	w := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", employeeID, user.RoleEmployee, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", employeeID, user.RoleEmployee, body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Buckets are per user.
	w = s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", managerID, user.RoleManager, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouter_HolidayList(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.holiday.list = func(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
		require.NotNil(t, filter.DepartmentID)
		return []holiday.HolidayResponse{{ID: "h1", Name: "Founders Day", Date: "2026-10-20", IsCompanyWide: true}}, nil
	}

	w := s.do(t, http.MethodGet, "/api/v1/holidays?department_id=0192a000-0000-7000-8000-0000000000e1", employeeID, user.RoleEmployee, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, resp["meta"].(map[string]interface{})["total_items"])
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	w := s.do(t, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
