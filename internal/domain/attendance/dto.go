package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockInRequest struct {
	WorkLocation WorkLocation `json:"work_location"`
	Timezone     string       `json:"timezone"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.WorkLocation.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "work_location",
			Message: ErrInvalidWorkLocation.Message,
		})
	}

	if _, ok := validator.IsValidTimezone(r.Timezone); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: ErrInvalidTimezone.Message,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Location returns the request timezone, UTC when empty.
func (r *ClockInRequest) Location() *time.Location {
	loc, ok := validator.IsValidTimezone(r.Timezone)
	if !ok {
		return time.UTC
	}
	return loc
}

type ClockOutRequest struct {
	TasksDone string `json:"tasks_done"`
}

func (r *ClockOutRequest) Validate() error {
	if validator.IsEmpty(r.TasksDone) {
		return validator.ValidationErrors{{
			Field:   "tasks_done",
			Message: ErrTasksDoneRequired.Message,
		}}
	}
	r.TasksDone = strings.TrimSpace(r.TasksDone)
	return nil
}

// CurrentStatusRequest carries the caller's timezone, which decides what
// "today" is, and whether to bypass the refresh interval.
type CurrentStatusRequest struct {
	Timezone string `json:"timezone"`
	Force    bool   `json:"force"`
}

func (r *CurrentStatusRequest) Validate() error {
	if _, ok := validator.IsValidTimezone(r.Timezone); !ok {
		return validator.ValidationErrors{{
			Field:   "timezone",
			Message: ErrInvalidTimezone.Message,
		}}
	}
	return nil
}

func (r *CurrentStatusRequest) Location() *time.Location {
	loc, ok := validator.IsValidTimezone(r.Timezone)
	if !ok {
		return time.UTC
	}
	return loc
}

// ========================================
// APPROVAL DTOs
// ========================================

type ApproveRequest struct {
	AttendanceID   string         `json:"attendance_id"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if !IsDecision(r.ApprovalStatus) {
		errs = append(errs, validator.ValidationError{
			Field:   "approval_status",
			Message: ErrInvalidDecision.Message,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AutoApproveResponse struct {
	Cutoff  string `json:"cutoff"`
	Updated int64  `json:"updated"`
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	UserName       *string  `json:"user_name,omitempty"`
	UserRole       *string  `json:"user_role,omitempty"`
	Date           string   `json:"date"`
	ClockIn        string   `json:"clock_in"`
	ClockOut       *string  `json:"clock_out,omitempty"`
	HoursWorked    *float64 `json:"hours_worked,omitempty"`
	WorkLocation   string   `json:"work_location"`
	TasksDone      *string  `json:"tasks_done,omitempty"`
	Status         string   `json:"status"`
	ApprovalStatus string   `json:"approval_status"`
	ApprovedBy     *string  `json:"approved_by,omitempty"`
	ApprovedAt     *string  `json:"approved_at,omitempty"`
	TeamID         *string  `json:"team_id,omitempty"`
	TeamName       *string  `json:"team_name,omitempty"`
}

type CurrentStatusResponse struct {
	Status     SessionState        `json:"status"`
	Attendance *AttendanceResponse `json:"attendance,omitempty"`
	FetchedAt  string              `json:"fetched_at"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		UserName:       a.UserName,
		UserRole:       a.UserRole,
		Date:           dateutil.Format(a.Date),
		ClockIn:        a.ClockIn.UTC().Format(time.RFC3339),
		ClockOut:       timePtrToString(a.ClockOut),
		HoursWorked:    a.HoursWorked,
		WorkLocation:   string(a.WorkLocation),
		TasksDone:      a.TasksDone,
		Status:         string(a.Status),
		ApprovalStatus: string(a.ApprovalStatus),
		ApprovedBy:     a.ApprovedBy,
		ApprovedAt:     timePtrToString(a.ApprovedAt),
		TeamID:         a.TeamID,
		TeamName:       a.TeamName,
	}
}

func ToResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, ToResponse(a))
	}
	return out
}
