package report

import (
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

// Day labels used in the per-day columns of a report.
const (
	DayHoliday = "Holiday"
	DayWeekend = "Weekend"
	DayAbsent  = "Absent"
)

// ComputeInput is everything Compute reads. Records outside Range or owned by
// users not listed in Users are ignored.
type ComputeInput struct {
	Range    Range
	Users    []user.User
	Records  []attendance.Attendance
	Holidays *holiday.Calendar

	// Today bounds absence counting; days after it are neither present nor
	// absent. Zero counts every day of the range.
	Today time.Time
}

type UserStats struct {
	TotalWorkingDays     int
	TotalValidPresent    int
	TotalAbsent          int
	TotalPending         int
	TotalLeave           int
	ExtraWorkDays        int
	AttendancePercentage int
	AvgHoursWorked       float64
	RemoteWork           int
	OnsiteWork           int
}

// RangeDay describes a day of the range from the company-wide point of view.
type RangeDay struct {
	Date        time.Time
	IsWeekend   bool
	IsHoliday   bool
	HolidayName string
}

type UserReport struct {
	User  user.User
	Stats UserStats

	// Daily is aligned with Report.Days.
	Daily      []string
	Attendance map[time.Time]attendance.Attendance
}

type PeriodInfo struct {
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	TotalHolidays int
	TotalWeekends int
	WorkingDays   int
}

type Report struct {
	Period PeriodInfo
	Days   []RangeDay
	Users  []UserReport
}

// UsersByRole splits the user reports by role, keeping their order.
func (r Report) UsersByRole() map[user.Role][]UserReport {
	out := make(map[user.Role][]UserReport)
	for _, u := range r.Users {
		out[u.User.Role] = append(out[u.User.Role], u)
	}
	return out
}

// Compute aggregates per-user statistics over the range. It never modifies
// its input and is safe to call concurrently.
func Compute(in ComputeInput) Report {
	rng := in.Range
	today := in.Today
	if !today.IsZero() {
		today = dateutil.Normalize(today)
	}

	rep := Report{
		Period: PeriodInfo{StartDate: rng.Start, EndDate: rng.End, TotalDays: rng.Len()},
		Days:   make([]RangeDay, 0, rng.Len()),
		Users:  make([]UserReport, 0, len(in.Users)),
	}
	for day := range rng.Days() {
		rd := RangeDay{Date: day, IsWeekend: dateutil.IsWeekend(day)}
		if h, ok := in.Holidays.Lookup(day, ""); ok {
			rd.IsHoliday = true
			rd.HolidayName = h.Name
			rep.Period.TotalHolidays++
		}
		switch {
		case rd.IsWeekend:
			rep.Period.TotalWeekends++
		case !rd.IsHoliday:
			rep.Period.WorkingDays++
		}
		rep.Days = append(rep.Days, rd)
	}

	byUser := indexRecords(in.Records, rng)
	for _, u := range in.Users {
		rep.Users = append(rep.Users, computeUser(u, byUser[u.ID], rep.Days, in.Holidays, today))
	}
	return rep
}

func indexRecords(records []attendance.Attendance, rng Range) map[string]map[time.Time]attendance.Attendance {
	out := make(map[string]map[time.Time]attendance.Attendance)
	for _, r := range records {
		day := dateutil.Normalize(r.Date)
		if !rng.Contains(day) {
			continue
		}
		days, ok := out[r.UserID]
		if !ok {
			days = make(map[time.Time]attendance.Attendance)
			out[r.UserID] = days
		}
		if _, dup := days[day]; !dup {
			days[day] = r
		}
	}
	return out
}

func computeUser(u user.User, records map[time.Time]attendance.Attendance, days []RangeDay, holidays *holiday.Calendar, today time.Time) UserReport {
	ur := UserReport{
		User:       u,
		Daily:      make([]string, 0, len(days)),
		Attendance: make(map[time.Time]attendance.Attendance, len(records)),
	}
	dept := u.Department()

	var hoursTotal float64
	var closed int
	for _, d := range days {
		rec, hasRecord := records[d.Date]
		isHoliday := holidays.IsHoliday(d.Date, dept)
		working := !d.IsWeekend && !isHoliday
		future := !today.IsZero() && d.Date.After(today)

		if working {
			ur.Stats.TotalWorkingDays++
		}

		if hasRecord {
			ur.Attendance[d.Date] = rec
			countRecord(&ur.Stats, rec, working)
			if rec.ClockOut != nil && rec.HoursWorked != nil {
				hoursTotal += *rec.HoursWorked
				closed++
			}
		} else if working && !future {
			ur.Stats.TotalAbsent++
		}

		ur.Daily = append(ur.Daily, dayLabel(rec, hasRecord, isHoliday, d.IsWeekend, future))
	}

	if ur.Stats.TotalWorkingDays > 0 {
		ur.Stats.AttendancePercentage = int(math.Round(float64(ur.Stats.TotalValidPresent) / float64(ur.Stats.TotalWorkingDays) * 100))
	}
	if closed > 0 {
		ur.Stats.AvgHoursWorked = math.Round(hoursTotal/float64(closed)*100) / 100
	}
	return ur
}

func countRecord(s *UserStats, rec attendance.Attendance, working bool) {
	switch rec.WorkLocation {
	case attendance.WorkLocationRemote:
		s.RemoteWork++
	case attendance.WorkLocationOnsite:
		s.OnsiteWork++
	}
	if rec.ApprovalStatus == attendance.ApprovalPending {
		s.TotalPending++
	}

	switch {
	case rec.Status == attendance.StatusLeave:
		s.TotalLeave++
	case rec.Status == attendance.StatusAbsent:
		if working {
			s.TotalAbsent++
		}
	case rec.Status.IsPresence() && !working:
		s.ExtraWorkDays++
	case rec.Status.IsPresence() && rec.ApprovalStatus.IsValid():
		s.TotalValidPresent++
	}
}

func dayLabel(rec attendance.Attendance, hasRecord, isHoliday, isWeekend, future bool) string {
	switch {
	case isHoliday:
		return DayHoliday
	case hasRecord:
		return string(rec.Status)
	case isWeekend:
		return DayWeekend
	case future:
		return ""
	default:
		return DayAbsent
	}
}
