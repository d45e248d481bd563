package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/google/uuid"
)

type ClockServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	holiday.HolidayRepository
	opts   Options
	status *StatusRefresher
}

// ClockIn implements attendance.ClockService.
func (s *ClockServiceImpl) ClockIn(ctx context.Context, principal auth.Principal, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	u, err := s.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("get user", err)
	}

	loc := req.Location()
	now := s.opts.Now().UTC()
	today := dateutil.LocalDay(now, loc)

	open, err := s.AttendanceRepository.GetOpenSession(ctx, u.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("get open session", err)
	}
	if open != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, u.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("get attendance by date", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyRecordedDay
	}

	holidays, err := s.HolidayRepository.ListByDate(ctx, today)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("list holidays", err)
	}

	status := attendance.StatusPresent
	if !holiday.NewCalendar(holidays).IsWorkingDay(today, u.Department()) {
		status = attendance.StatusExtraWork
	}

	record := attendance.Attendance{
		ID:             uuid.Must(uuid.NewV7()).String(),
		UserID:         u.ID,
		Date:           today,
		ClockIn:        now,
		WorkLocation:   req.WorkLocation,
		Status:         status,
		ApprovalStatus: attendance.ApprovalPending,
		TeamID:         u.TeamID,
		Timezone:       loc.String(),
	}

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("create attendance", err)
	}
	s.status.Invalidate(u.ID)

	slog.Info("Clocked in", "user_id", u.ID, "attendance_id", created.ID, "date", dateutil.Format(today), "status", created.Status)
	return attendance.ToResponse(created), nil
}

// ClockOut implements attendance.ClockService.
func (s *ClockServiceImpl) ClockOut(ctx context.Context, principal auth.Principal, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	open, err := s.AttendanceRepository.GetOpenSession(ctx, principal.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("get open session", err)
	}
	if open == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}

	closed := *open
	out := s.opts.Now().UTC()
	if out.Before(closed.ClockIn) {
		out = closed.ClockIn
	}
	hours := attendance.HoursBetween(closed.ClockIn, out)
	tasks := req.TasksDone

	closed.ClockOut = &out
	closed.HoursWorked = &hours
	closed.TasksDone = &tasks
	closed.ApprovalStatus = attendance.ApprovalPending
	if closed.Status == attendance.StatusPresent && hours < s.opts.HalfDayHours {
		closed.Status = attendance.StatusHalfDay
	}

	updated, err := s.AttendanceRepository.Close(ctx, closed)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("close attendance", err)
	}
	s.status.Invalidate(principal.UserID)

	slog.Info("Clocked out", "user_id", principal.UserID, "attendance_id", updated.ID, "hours_worked", hours)
	return attendance.ToResponse(updated), nil
}

// CurrentStatus implements attendance.ClockService.
func (s *ClockServiceImpl) CurrentStatus(ctx context.Context, principal auth.Principal, req attendance.CurrentStatusRequest) (attendance.CurrentStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CurrentStatusResponse{}, err
	}
	return s.status.Get(ctx, principal.UserID, req.Location(), req.Force)
}

func (s *ClockServiceImpl) fetchStatus(ctx context.Context, userID string, loc *time.Location) (attendance.CurrentStatusResponse, error) {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	now := s.opts.Now().UTC()

	open, err := s.AttendanceRepository.GetOpenSession(ctx, userID)
	if err != nil {
		return attendance.CurrentStatusResponse{}, apperror.Store("get open session", err)
	}

	var today *attendance.Attendance
	if open == nil {
		today, err = s.AttendanceRepository.GetByUserAndDate(ctx, userID, dateutil.LocalDay(now, loc))
		if err != nil {
			return attendance.CurrentStatusResponse{}, apperror.Store("get attendance by date", err)
		}
	}

	state, record := attendance.CurrentState(open, today)
	resp := attendance.CurrentStatusResponse{
		Status:    state,
		FetchedAt: now.Format(time.RFC3339),
	}
	if record != nil {
		r := attendance.ToResponse(*record)
		resp.Attendance = &r
	}
	return resp, nil
}

// NewClockService wires the clock engine and its status refresher.
func NewClockService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	holidayRepo holiday.HolidayRepository,
	opts Options,
) *ClockServiceImpl {
	s := &ClockServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		HolidayRepository:    holidayRepo,
		opts:                 opts.withDefaults(),
	}
	s.status = NewStatusRefresher(s.opts.StatusRefreshInterval, s.opts.Now, s.fetchStatus)
	return s
}

// Status returns the refresher so approvals can invalidate cached statuses.
func (s *ClockServiceImpl) Status() *StatusRefresher {
	return s.status
}
