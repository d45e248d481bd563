package report

import (
	"iter"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

// Range is an inclusive range of calendar days. End before Start is an
// empty range.
type Range struct {
	Start time.Time
	End   time.Time
}

func NewRange(start, end time.Time) Range {
	return Range{Start: dateutil.Normalize(start), End: dateutil.Normalize(end)}
}

func (r Range) Len() int {
	return dateutil.DaysInclusive(r.Start, r.End)
}

func (r Range) Contains(day time.Time) bool {
	day = dateutil.Normalize(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days yields each day of the range in order.
func (r Range) Days() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// CyclePeriod returns the reporting cycle labelled year/month. With a
// startDay of 26 the October cycle runs from 26 September to 25 October.
// startDay 1 (or anything outside 1..28) is the plain calendar month.
func CyclePeriod(year int, month time.Month, startDay int) Range {
	if startDay <= 1 || startDay > 28 {
		first, last := dateutil.MonthBounds(year, month)
		return Range{Start: first, End: last}
	}
	start := dateutil.Day(year, month-1, startDay)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}
