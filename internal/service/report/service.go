package report

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/team"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

// Options tunes the report service. Zero values fall back to defaults.
type Options struct {
	StoreTimeout  time.Duration
	CycleStartDay int
	Now           func() time.Time
}

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	team.TeamRepository
	holiday.HolidayRepository
	opts Options
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	teamRepo team.TeamRepository,
	holidayRepo holiday.HolidayRepository,
	opts Options,
) report.ReportService {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.CycleStartDay <= 0 {
		opts.CycleStartDay = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		TeamRepository:       teamRepo,
		HolidayRepository:    holidayRepo,
		opts:                 opts,
	}
}

// Reports implements report.ReportService.
func (s *ReportServiceImpl) Reports(ctx context.Context, principal auth.Principal, req report.ReportRequest) (report.ReportResponse, error) {
	rep, err := s.compute(ctx, principal, req)
	if err != nil {
		return report.ReportResponse{}, err
	}
	return report.ToReportResponse(rep), nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, principal auth.Principal, req report.ReportRequest) (report.Report, error) {
	return s.compute(ctx, principal, req)
}

func (s *ReportServiceImpl) compute(ctx context.Context, principal auth.Principal, req report.ReportRequest) (report.Report, error) {
	if !principal.Can(user.PermissionReportsView) {
		return report.Report{}, report.ErrReportsForbidden
	}
	if err := req.Validate(s.opts.CycleStartDay); err != nil {
		return report.Report{}, err
	}
	rng := req.Range()

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	teamID, err := s.scopeTeam(ctx, principal, req.TeamID)
	if err != nil {
		return report.Report{}, err
	}

	users, err := s.UserRepository.List(ctx, user.ListFilter{TeamID: teamID})
	if err != nil {
		return report.Report{}, apperror.Store("list users", err)
	}

	var records []attendance.Attendance
	if len(users) > 0 && rng.Len() > 0 {
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		records, err = s.AttendanceRepository.List(ctx, attendance.ListFilter{StartDate: rng.Start, EndDate: rng.End, UserIDs: ids})
		if err != nil {
			return report.Report{}, apperror.Store("list attendance", err)
		}
	}

	var holidays []holiday.Holiday
	if rng.Len() > 0 {
		holidays, err = s.HolidayRepository.ListBetween(ctx, rng.Start, rng.End)
		if err != nil {
			return report.Report{}, apperror.Store("list holidays", err)
		}
	}

	return report.Compute(report.ComputeInput{
		Range:    rng,
		Users:    users,
		Records:  records,
		Holidays: holiday.NewCalendar(holidays),
		Today:    dateutil.LocalDay(s.opts.Now(), time.UTC),
	}), nil
}

// scopeTeam returns the team a principal may look at. Admins get what they
// asked for; managers are pinned to the team they manage.
func (s *ReportServiceImpl) scopeTeam(ctx context.Context, principal auth.Principal, requested *string) (*string, error) {
	if principal.IsAdmin() {
		return requested, nil
	}

	managed, err := s.TeamRepository.GetByManagerID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			return nil, report.ErrNoManagedTeam
		}
		return nil, apperror.Store("get managed team", err)
	}
	if requested != nil && *requested != managed.ID {
		return nil, team.ErrNotTeamOwner
	}
	return &managed.ID, nil
}

// TeamAttendance implements report.ReportService.
func (s *ReportServiceImpl) TeamAttendance(ctx context.Context, principal auth.Principal, req report.QueueRequest) (report.QueueResponse, error) {
	if !principal.Can(user.PermissionAttendanceViewTeam) {
		return report.QueueResponse{}, report.ErrQueueForbidden
	}
	if err := req.Validate(); err != nil {
		return report.QueueResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	teamID, err := s.scopeTeam(ctx, principal, req.TeamID)
	if err != nil {
		return report.QueueResponse{}, err
	}

	day := req.Day()
	records, err := s.AttendanceRepository.List(ctx, attendance.ListFilter{StartDate: day, EndDate: day, TeamID: teamID})
	if err != nil {
		return report.QueueResponse{}, apperror.Store("list attendance", err)
	}
	return report.ToQueueResponse(day, records), nil
}

// AllAttendance implements report.ReportService.
func (s *ReportServiceImpl) AllAttendance(ctx context.Context, principal auth.Principal, req report.QueueRequest) (report.QueueResponse, error) {
	if !principal.Can(user.PermissionAttendanceViewAll) {
		return report.QueueResponse{}, user.ErrAdminPrivilegeRequired
	}
	req.TeamID = nil
	if err := req.Validate(); err != nil {
		return report.QueueResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	day := req.Day()
	records, err := s.AttendanceRepository.List(ctx, attendance.ListFilter{StartDate: day, EndDate: day})
	if err != nil {
		return report.QueueResponse{}, apperror.Store("list attendance", err)
	}
	return report.ToQueueResponse(day, records), nil
}
