package attendance

import (
	"math"
	"time"
)

type WorkLocation string

const (
	WorkLocationOnsite WorkLocation = "Onsite"
	WorkLocationRemote WorkLocation = "Remote"
)

func (w WorkLocation) IsValid() bool {
	return w == WorkLocationOnsite || w == WorkLocationRemote
}

type Status string

const (
	StatusPresent   Status = "Present"
	StatusAbsent    Status = "Absent"
	StatusHalfDay   Status = "Half-Day"
	StatusLeave     Status = "Leave"
	StatusExtraWork Status = "Extra-Work"
)

// IsPresence reports whether s counts as the user having worked that day.
func (s Status) IsPresence() bool {
	return s == StatusPresent || s == StatusHalfDay || s == StatusExtraWork
}

type ApprovalStatus string

const (
	ApprovalPending      ApprovalStatus = "Pending"
	ApprovalApproved     ApprovalStatus = "Approved"
	ApprovalRejected     ApprovalStatus = "Rejected"
	ApprovalAutoApproved ApprovalStatus = "Auto-Approved"
)

// IsValid reports whether a counts toward valid presence.
func (a ApprovalStatus) IsValid() bool {
	return a == ApprovalApproved || a == ApprovalAutoApproved
}

type Attendance struct {
	ID             string
	UserID         string
	Date           time.Time // calendar day of ClockIn in the user's timezone, 00:00 UTC
	ClockIn        time.Time
	ClockOut       *time.Time
	HoursWorked    *float64
	WorkLocation   WorkLocation
	TasksDone      *string
	Status         Status
	ApprovalStatus ApprovalStatus
	ApprovedBy     *string
	ApprovedAt     *time.Time
	TeamID         *string // team at creation time, never rewritten
	Timezone       string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	UserName     *string
	UserRole     *string
	DepartmentID *string
	TeamName     *string
}

// IsOpen reports whether a is an open session.
func (a *Attendance) IsOpen() bool {
	return a.ClockOut == nil
}

// HoursBetween returns the elapsed hours from in to out rounded to 2 decimals.
func HoursBetween(in, out time.Time) float64 {
	if out.Before(in) {
		return 0
	}
	return math.Round(out.Sub(in).Hours()*100) / 100
}
