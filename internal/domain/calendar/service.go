package calendar

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

// CalendarService reconstructs a user's month for the attendance calendar
// and lists the caller's own history.
type CalendarService interface {
	MonthlyAttendance(ctx context.Context, principal auth.Principal, req MonthlyAttendanceRequest) (MonthlyAttendanceResponse, error)

	// History lists the caller's records within the range, oldest first.
	History(ctx context.Context, principal auth.Principal, req HistoryRequest) (HistoryResponse, error)
}
