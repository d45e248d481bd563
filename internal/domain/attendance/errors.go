package attendance

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

// Attendance domain errors
var (
	// Clock errors
	ErrAlreadyClockedIn    = apperror.Conflict("you already have an open attendance session")
	ErrAlreadyRecordedDay  = apperror.Conflict("attendance for today has already been recorded")
	ErrNotClockedIn        = apperror.NotFound("you have not clocked in")
	ErrTasksDoneRequired   = apperror.Validation("tasks done is required to clock out")
	ErrInvalidWorkLocation = apperror.Validation("work location must be Onsite or Remote")
	ErrInvalidTimezone     = apperror.Validation("timezone is not a valid IANA time zone")

	// Approval errors
	ErrInvalidDecision   = apperror.Validation("approval status must be Approved or Rejected")
	ErrSessionStillOpen  = apperror.Conflict("attendance cannot be approved before clock-out")
	ErrDuplicateDecision = apperror.Conflict("attendance already has this approval status")
	ErrAlreadyDecided    = apperror.Conflict("attendance has already been approved or rejected")
	ErrNotApprover       = apperror.Forbidden("you are not allowed to approve this attendance")
	ErrSelfApproval      = apperror.Forbidden("you cannot approve your own attendance")

	// General errors
	ErrAttendanceNotFound = apperror.NotFound("attendance record not found")
	ErrUnauthorized       = apperror.Forbidden("unauthorized to access this attendance record")
)
