// Package calendar rebuilds a month of attendance as a Monday-first 7-column
// grid with holidays, weekends and per-day display categories.
package calendar

import (
	"iter"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

type Category string

const (
	CategoryHoliday      Category = "Holiday"
	CategoryWeekend      Category = "Weekend"
	CategoryApproved     Category = "Approved"
	CategoryPending      Category = "Pending"
	CategoryRejected     Category = "Rejected"
	CategoryAutoApproved Category = "Auto-Approved"
	CategoryInProgress   Category = "InProgress"
	CategoryMissing      Category = "Missing"
	CategoryEmpty        Category = "Empty"
)

type Day struct {
	Date           time.Time
	IsWeekend      bool
	IsHoliday      bool
	HolidayName    string
	Attendance     *attendance.Attendance
	IsCurrentMonth bool
	Category       Category
}

// IsSelectable reports whether new attendance actions may target the day.
func (d Day) IsSelectable() bool {
	return d.IsCurrentMonth
}

// Month is a restartable view over one month's grid. Each call to Days
// regenerates the sequence from the inputs given to NewMonth.
type Month struct {
	Year         int
	Month        time.Month
	First        time.Time
	Last         time.Time
	GridStart    time.Time
	GridEnd      time.Time
	today        time.Time
	holidays     *holiday.Calendar
	departmentID string
	records      map[time.Time]attendance.Attendance
}

// NewMonth prepares the grid of year/month for one user. today is the
// user's current calendar day; records are keyed by their Date and only
// attached when they fall inside the month.
func NewMonth(year int, month time.Month, today time.Time, holidays *holiday.Calendar, departmentID string, records []attendance.Attendance) *Month {
	first, last := dateutil.MonthBounds(year, month)
	byDate := make(map[time.Time]attendance.Attendance, len(records))
	for _, r := range records {
		day := dateutil.Normalize(r.Date)
		if day.Before(first) || day.After(last) {
			continue
		}
		byDate[day] = r
	}

	return &Month{
		Year:         year,
		Month:        month,
		First:        first,
		Last:         last,
		GridStart:    dateutil.StartOfWeek(first),
		GridEnd:      dateutil.EndOfWeek(last),
		today:        dateutil.Normalize(today),
		holidays:     holidays,
		departmentID: departmentID,
		records:      byDate,
	}
}

// Len is the number of grid cells, always a multiple of 7 between 28 and 42.
func (m *Month) Len() int {
	return dateutil.DaysInclusive(m.GridStart, m.GridEnd)
}

// Days yields every grid cell from GridStart to GridEnd in order.
func (m *Month) Days() iter.Seq[Day] {
	return func(yield func(Day) bool) {
		for d := m.GridStart; !d.After(m.GridEnd); d = d.AddDate(0, 0, 1) {
			if !yield(m.day(d)) {
				return
			}
		}
	}
}

func (m *Month) day(date time.Time) Day {
	day := Day{
		Date:           date,
		IsWeekend:      dateutil.IsWeekend(date),
		IsCurrentMonth: !date.Before(m.First) && !date.After(m.Last),
	}

	if h, ok := m.holidays.Lookup(date, m.departmentID); ok {
		day.IsHoliday = true
		day.HolidayName = h.Name
	}

	if day.IsCurrentMonth {
		if rec, ok := m.records[date]; ok {
			day.Attendance = &rec
		}
	}

	day.Category = Classify(day, m.today)
	return day
}

// Classify picks the display category of d with precedence
// Holiday > Weekend > attendance > Missing > Empty.
func Classify(d Day, today time.Time) Category {
	switch {
	case d.IsHoliday:
		return CategoryHoliday
	case d.IsWeekend:
		return CategoryWeekend
	case d.Attendance != nil:
		return attendanceCategory(d.Attendance)
	case d.IsCurrentMonth && d.Date.Before(today):
		return CategoryMissing
	default:
		return CategoryEmpty
	}
}

func attendanceCategory(a *attendance.Attendance) Category {
	if a.IsOpen() {
		return CategoryInProgress
	}
	switch a.ApprovalStatus {
	case attendance.ApprovalApproved:
		return CategoryApproved
	case attendance.ApprovalRejected:
		return CategoryRejected
	case attendance.ApprovalAutoApproved:
		return CategoryAutoApproved
	default:
		return CategoryPending
	}
}
