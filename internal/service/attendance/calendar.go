package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

type CalendarServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	holiday.HolidayRepository
	opts Options
}

// MonthlyAttendance implements calendar.CalendarService.
func (s *CalendarServiceImpl) MonthlyAttendance(ctx context.Context, principal auth.Principal, req calendar.MonthlyAttendanceRequest) (calendar.MonthlyAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.MonthlyAttendanceResponse{}, err
	}

	targetID := req.UserID
	if targetID == "" {
		targetID = principal.UserID
	}
	if targetID != principal.UserID && !principal.Can(user.PermissionAttendanceViewTeam) {
		return calendar.MonthlyAttendanceResponse{}, attendance.ErrUnauthorized
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	target, err := s.UserRepository.GetByID(ctx, targetID)
	if err != nil {
		return calendar.MonthlyAttendanceResponse{}, apperror.Store("get user", err)
	}

	if targetID != principal.UserID && !principal.IsAdmin() {
		viewer, err := s.UserRepository.GetByID(ctx, principal.UserID)
		if err != nil {
			return calendar.MonthlyAttendanceResponse{}, apperror.Store("get viewer", err)
		}
		if !viewer.Manages(target.TeamID) {
			return calendar.MonthlyAttendanceResponse{}, attendance.ErrUnauthorized
		}
	}

	month := time.Month(req.Month)
	first, last := dateutil.MonthBounds(req.Year, month)

	records, err := s.AttendanceRepository.ListByUserBetween(ctx, target.ID, first, last)
	if err != nil {
		return calendar.MonthlyAttendanceResponse{}, apperror.Store("list attendance", err)
	}

	holidays, err := s.HolidayRepository.ListBetween(ctx, dateutil.StartOfWeek(first), dateutil.EndOfWeek(last))
	if err != nil {
		return calendar.MonthlyAttendanceResponse{}, apperror.Store("list holidays", err)
	}

	today := dateutil.LocalDay(s.opts.Now(), req.Location())
	m := calendar.NewMonth(req.Year, month, today, holiday.NewCalendar(holidays), target.Department(), records)
	return calendar.ToMonthlyResponse(target.ID, m), nil
}

// History implements calendar.CalendarService. It only ever reads the
// caller's own records.
func (s *CalendarServiceImpl) History(ctx context.Context, principal auth.Principal, req calendar.HistoryRequest) (calendar.HistoryResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.HistoryResponse{}, err
	}
	start, end := req.Range()

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	records, err := s.AttendanceRepository.ListByUserBetween(ctx, principal.UserID, start, end)
	if err != nil {
		return calendar.HistoryResponse{}, apperror.Store("list attendance", err)
	}

	return calendar.HistoryResponse{
		UserID:     principal.UserID,
		StartDate:  dateutil.Format(start),
		EndDate:    dateutil.Format(end),
		Attendance: attendance.ToResponses(records),
	}, nil
}

func NewCalendarService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	holidayRepo holiday.HolidayRepository,
	opts Options,
) calendar.CalendarService {
	return &CalendarServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		HolidayRepository:    holidayRepo,
		opts:                 opts.withDefaults(),
	}
}
