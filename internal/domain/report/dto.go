package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const MaxRangeDays = 366

// ========================================
// REPORT REQUEST
// ========================================

// ReportRequest selects a range either explicitly or as a reporting cycle
// (Period, "YYYY-MM"). Period wins when both are given.
type ReportRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Period    string  `json:"period"`
	TeamID    *string `json:"team_id"`

	rng Range
}

// Validate checks the request and resolves its range with the given cycle
// start day.
func (r *ReportRequest) Validate(cycleStartDay int) error {
	var errs validator.ValidationErrors

	if r.TeamID != nil && !validator.IsValidUUID(*r.TeamID) {
		errs = append(errs, validator.ValidationError{Field: "team_id", Message: "team_id must be a valid UUID"})
	}

	if !validator.IsEmpty(r.Period) {
		month, ok := validator.IsValidMonth(r.Period)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "period", Message: "period must be in YYYY-MM format"})
		} else {
			r.rng = CyclePeriod(month.Year(), month.Month(), cycleStartDay)
		}
		if len(errs) > 0 {
			return errs
		}
		return nil
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if startOK && endOK {
		r.rng = NewRange(start, end)
		if r.rng.Len() > MaxRangeDays {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrRangeTooLong.Message})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range is the resolved range; only meaningful after a successful Validate.
func (r *ReportRequest) Range() Range {
	return r.rng
}

// ========================================
// QUEUE REQUEST
// ========================================

type QueueRequest struct {
	Date   string  `json:"date"`
	TeamID *string `json:"team_id"`
}

func (r *QueueRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if r.TeamID != nil && !validator.IsValidUUID(*r.TeamID) {
		errs = append(errs, validator.ValidationError{Field: "team_id", Message: "team_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *QueueRequest) Day() time.Time {
	day, _ := validator.IsValidDate(r.Date)
	return dateutil.Normalize(day)
}

// ========================================
// RESPONSES
// ========================================

type PeriodInfoResponse struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalDays     int    `json:"total_days"`
	TotalHolidays int    `json:"total_holidays"`
	TotalWeekends int    `json:"total_weekends"`
	WorkingDays   int    `json:"working_days"`
}

type RangeDayResponse struct {
	Date        string `json:"date"`
	DayName     string `json:"day_name"`
	IsWeekend   bool   `json:"is_weekend"`
	IsHoliday   bool   `json:"is_holiday"`
	HolidayName string `json:"holiday_name,omitempty"`
}

type UserStatsResponse struct {
	TotalWorkingDays     int     `json:"total_working_days"`
	TotalValidPresent    int     `json:"total_valid_present"`
	TotalAbsent          int     `json:"total_absent"`
	TotalPending         int     `json:"total_pending"`
	TotalLeave           int     `json:"total_leave"`
	ExtraWorkDays        int     `json:"extra_work_days"`
	AttendancePercentage int     `json:"attendance_percentage"`
	AvgHoursWorked       float64 `json:"avg_hours_worked"`
	RemoteWork           int     `json:"remote_work"`
	OnsiteWork           int     `json:"onsite_work"`
}

type UserReportResponse struct {
	UserID       string                                   `json:"user_id"`
	Name         string                                   `json:"name"`
	Role         string                                   `json:"role"`
	TeamID       *string                                  `json:"team_id,omitempty"`
	TeamName     *string                                  `json:"team_name,omitempty"`
	DepartmentID *string                                  `json:"department_id,omitempty"`
	Stats        UserStatsResponse                        `json:"stats"`
	Daily        map[string]string                        `json:"daily"`
	Attendance   map[string]attendance.AttendanceResponse `json:"attendance"`
}

type ReportResponse struct {
	PeriodInfo          PeriodInfoResponse   `json:"period_info"`
	DateRange           []RangeDayResponse   `json:"date_range"`
	UserAttendanceStats []UserReportResponse `json:"user_attendance_stats"`
	UsersByRole         map[string][]string  `json:"users_by_role"`
}

type GroupedResponse struct {
	Managers []attendance.AttendanceResponse            `json:"managers"`
	Teams    map[string][]attendance.AttendanceResponse `json:"teams"`
}

type QueueResponse struct {
	Date              string                          `json:"date"`
	Attendance        []attendance.AttendanceResponse `json:"attendance"`
	GroupedAttendance GroupedResponse                 `json:"grouped_attendance"`
}

func ToReportResponse(r Report) ReportResponse {
	resp := ReportResponse{
		PeriodInfo: PeriodInfoResponse{
			StartDate:     dateutil.Format(r.Period.StartDate),
			EndDate:       dateutil.Format(r.Period.EndDate),
			TotalDays:     r.Period.TotalDays,
			TotalHolidays: r.Period.TotalHolidays,
			TotalWeekends: r.Period.TotalWeekends,
			WorkingDays:   r.Period.WorkingDays,
		},
		DateRange:           make([]RangeDayResponse, 0, len(r.Days)),
		UserAttendanceStats: make([]UserReportResponse, 0, len(r.Users)),
		UsersByRole:         make(map[string][]string),
	}

	for _, d := range r.Days {
		resp.DateRange = append(resp.DateRange, RangeDayResponse{
			Date:        dateutil.Format(d.Date),
			DayName:     d.Date.Weekday().String()[:3],
			IsWeekend:   d.IsWeekend,
			IsHoliday:   d.IsHoliday,
			HolidayName: d.HolidayName,
		})
	}

	for _, u := range r.Users {
		ur := UserReportResponse{
			UserID:       u.User.ID,
			Name:         u.User.Name,
			Role:         string(u.User.Role),
			TeamID:       u.User.TeamID,
			TeamName:     u.User.TeamName,
			DepartmentID: u.User.DepartmentID,
			Stats:        UserStatsResponse(u.Stats),
			Daily:        make(map[string]string, len(u.Daily)),
			Attendance:   make(map[string]attendance.AttendanceResponse, len(u.Attendance)),
		}
		for i, label := range u.Daily {
			ur.Daily[dateutil.Format(r.Days[i].Date)] = label
		}
		for day, rec := range u.Attendance {
			ur.Attendance[dateutil.Format(day)] = attendance.ToResponse(rec)
		}
		resp.UserAttendanceStats = append(resp.UserAttendanceStats, ur)
		resp.UsersByRole[ur.Role] = append(resp.UsersByRole[ur.Role], ur.UserID)
	}
	return resp
}

func ToGroupedResponse(g Grouped) GroupedResponse {
	resp := GroupedResponse{
		Managers: attendance.ToResponses(g.Managers),
		Teams:    make(map[string][]attendance.AttendanceResponse, len(g.Teams)),
	}
	for name, records := range g.Teams {
		resp.Teams[name] = attendance.ToResponses(records)
	}
	return resp
}

func ToQueueResponse(day time.Time, records []attendance.Attendance) QueueResponse {
	return QueueResponse{
		Date:              dateutil.Format(day),
		Attendance:        attendance.ToResponses(records),
		GroupedAttendance: ToGroupedResponse(GroupByRoleAndTeam(records)),
	}
}
