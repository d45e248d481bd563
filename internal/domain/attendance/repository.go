package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the record store boundary. It owns serialization of
// concurrent clock-ins: Create fails with ErrAlreadyClockedIn or
// ErrAlreadyRecordedDay when a uniqueness constraint rejects the insert.
type AttendanceRepository interface {
	// Create inserts a new open session.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID with joined user and team data.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil, nil when no record exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// GetOpenSession returns nil, nil when the user has no open session.
	GetOpenSession(ctx context.Context, userID string) (*Attendance, error)

	// Close sets the clock-out fields of an open session in one statement.
	// It returns ErrNotClockedIn when the row is no longer open.
	Close(ctx context.Context, attendance Attendance) (Attendance, error)

	// UpdateApproval moves the record from expected to the new status. It
	// returns ErrAlreadyDecided when the stored status no longer equals expected.
	UpdateApproval(ctx context.Context, id string, expected ApprovalStatus, update ApprovalUpdate) (Attendance, error)

	// AutoApprovePending moves every closed Pending record dated before cutoff
	// to Auto-Approved and returns the number of rows changed.
	AutoApprovePending(ctx context.Context, cutoff time.Time, at time.Time) (int64, error)

	// ListByUserBetween returns a user's records dated within [start, end].
	ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]Attendance, error)

	// List returns records matching filter with joined user and team data.
	List(ctx context.Context, filter ListFilter) ([]Attendance, error)
}

type ApprovalUpdate struct {
	Status     ApprovalStatus
	ApprovedBy *string
	ApprovedAt time.Time
}

type ListFilter struct {
	StartDate time.Time
	EndDate   time.Time
	TeamID    *string
	UserIDs   []string
}
