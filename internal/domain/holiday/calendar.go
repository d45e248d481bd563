package holiday

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

// Calendar is an immutable date index over a set of holidays.
type Calendar struct {
	byDate map[time.Time][]Holiday
}

func NewCalendar(holidays []Holiday) *Calendar {
	c := &Calendar{byDate: make(map[time.Time][]Holiday, len(holidays))}
	for _, h := range holidays {
		day := dateutil.Normalize(h.Date)
		c.byDate[day] = append(c.byDate[day], h)
	}
	return c
}

// Lookup returns the first holiday on day that applies to departmentID.
// A nil Calendar has no holidays.
func (c *Calendar) Lookup(day time.Time, departmentID string) (Holiday, bool) {
	if c == nil {
		return Holiday{}, false
	}
	for _, h := range c.byDate[dateutil.Normalize(day)] {
		if h.AppliesTo(departmentID) {
			return h, true
		}
	}
	return Holiday{}, false
}

func (c *Calendar) IsHoliday(day time.Time, departmentID string) bool {
	_, ok := c.Lookup(day, departmentID)
	return ok
}

// IsWorkingDay reports whether day is neither a weekend nor a holiday for departmentID.
func (c *Calendar) IsWorkingDay(day time.Time, departmentID string) bool {
	return !dateutil.IsWeekend(day) && !c.IsHoliday(day, departmentID)
}
