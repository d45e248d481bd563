package validator

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/google/uuid"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// ValidationError is a failure of a single request field.
type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

// Is lets field errors match apperror.ErrValidation.
func (v ValidationErrors) Is(target error) bool {
	return target == apperror.ErrValidation
}

// ToMap keys the messages by field for the response details.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidUUID accepts only the canonical 36 character form of an RFC 9562
// UUID of versions 1 through 8.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Variant() == uuid.RFC4122 && id.Version() >= 1 && id.Version() <= 8
}

func IsValidDate(s string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, s)
	return date, err == nil
}

// IsValidMonth parses a YYYY-MM period.
func IsValidMonth(s string) (time.Time, bool) {
	t, err := time.Parse(MonthLayout, s)
	return t, err == nil
}

// IsValidTimezone reports whether name is a loadable IANA zone. Empty means UTC.
func IsValidTimezone(name string) (*time.Location, bool) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}
