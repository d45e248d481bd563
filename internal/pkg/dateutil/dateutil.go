// Package dateutil holds calendar-day helpers. A calendar day is always
// represented as a time.Time at 00:00 UTC so values compare with == and
// round-trip through a PostgreSQL DATE column unchanged.
package dateutil

import "time"

const Layout = "2006-01-02"

// Day returns the calendar day y-m-d.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LocalDay returns the calendar day of instant t as seen in loc.
func LocalDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	l := t.In(loc)
	return Day(l.Year(), l.Month(), l.Day())
}

// Normalize drops the clock part of t, keeping its own calendar fields.
func Normalize(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfWeek returns the Monday on or before day.
func StartOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// EndOfWeek returns the Sunday on or after day.
func EndOfWeek(day time.Time) time.Time {
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// MonthBounds returns the first and last calendar day of the month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := Day(year, month, 1)
	return first, first.AddDate(0, 1, -1)
}

// DaysInclusive returns the number of calendar days in [start, end], or 0 when end < start.
func DaysInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
