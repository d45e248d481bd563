package holiday

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrHolidayNotFound  = apperror.NotFound("holiday not found")
	ErrHolidayOverlap   = apperror.Conflict("another holiday on this date already covers one of the selected departments")
	ErrDepartmentsEmpty = apperror.Validation("a department-scoped holiday needs at least one department")
)
