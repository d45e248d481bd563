package calendar

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type MonthlyAttendanceRequest struct {
	UserID string `json:"user_id"` // empty means the caller
	Month  int    `json:"month"`
	Year   int    `json:"year"`

	// Timezone decides which day is "today"; empty means UTC.
	Timezone string `json:"timezone"`
}

func (r *MonthlyAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between %d and %d", 2000, 2100),
		})
	}

	if r.UserID != "" && !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if _, ok := validator.IsValidTimezone(r.Timezone); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: attendance.ErrInvalidTimezone.Message,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *MonthlyAttendanceRequest) Location() *time.Location {
	loc, ok := validator.IsValidTimezone(r.Timezone)
	if !ok {
		return time.UTC
	}
	return loc
}

type DayResponse struct {
	Date           string                         `json:"date"`
	DayOfWeek      string                         `json:"day_of_week"`
	IsWeekend      bool                           `json:"is_weekend"`
	IsHoliday      bool                           `json:"is_holiday"`
	HolidayName    *string                        `json:"holiday_name,omitempty"`
	IsCurrentMonth bool                           `json:"is_current_month"`
	IsSelectable   bool                           `json:"is_selectable"`
	Category       Category                       `json:"category"`
	Attendance     *attendance.AttendanceResponse `json:"attendance,omitempty"`
}

type MonthlyAttendanceResponse struct {
	UserID    string                 `json:"user_id"`
	Month     int                    `json:"month"`
	Year      int                    `json:"year"`
	GridStart string                 `json:"grid_start"`
	GridEnd   string                 `json:"grid_end"`
	Days      []DayResponse          `json:"days"`
	ByDate    map[string]DayResponse `json:"attendance"`
}

func ToDayResponse(d Day) DayResponse {
	resp := DayResponse{
		Date:           dateutil.Format(d.Date),
		DayOfWeek:      d.Date.Weekday().String()[:3],
		IsWeekend:      d.IsWeekend,
		IsHoliday:      d.IsHoliday,
		IsCurrentMonth: d.IsCurrentMonth,
		IsSelectable:   d.IsSelectable(),
		Category:       d.Category,
	}
	if d.IsHoliday {
		name := d.HolidayName
		resp.HolidayName = &name
	}
	if d.Attendance != nil {
		a := attendance.ToResponse(*d.Attendance)
		resp.Attendance = &a
	}
	return resp
}

// ToMonthlyResponse materialises the grid. ByDate only holds days of the
// month itself, matching the monthly attendance map of the console.
func ToMonthlyResponse(userID string, m *Month) MonthlyAttendanceResponse {
	resp := MonthlyAttendanceResponse{
		UserID:    userID,
		Month:     int(m.Month),
		Year:      m.Year,
		GridStart: dateutil.Format(m.GridStart),
		GridEnd:   dateutil.Format(m.GridEnd),
		Days:      make([]DayResponse, 0, m.Len()),
		ByDate:    make(map[string]DayResponse, m.Last.Day()),
	}
	for d := range m.Days() {
		dr := ToDayResponse(d)
		resp.Days = append(resp.Days, dr)
		if d.IsCurrentMonth {
			resp.ByDate[dr.Date] = dr
		}
	}
	return resp
}

// MaxHistoryDays bounds one history request.
const MaxHistoryDays = 366

// HistoryRequest selects the caller's own records dated within an arbitrary
// inclusive range.
type HistoryRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK {
		switch days := dateutil.DaysInclusive(start, end); {
		case end.Before(start):
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		case days > MaxHistoryDays:
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: fmt.Sprintf("range must not exceed %d days", MaxHistoryDays),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the validated bounds.
func (r *HistoryRequest) Range() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return dateutil.Normalize(start), dateutil.Normalize(end)
}

type HistoryResponse struct {
	UserID     string                          `json:"user_id"`
	StartDate  string                          `json:"start_date"`
	EndDate    string                          `json:"end_date"`
	Attendance []attendance.AttendanceResponse `json:"attendance"`
}
