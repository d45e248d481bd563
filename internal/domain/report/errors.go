package report

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrRangeTooLong     = apperror.Validation("date range must not exceed 366 days")
	ErrReportsForbidden = apperror.Forbidden("reports are available to managers and admins only")
	ErrQueueForbidden   = apperror.Forbidden("approval queues are available to managers and admins only")
	ErrNoManagedTeam    = apperror.Forbidden("you do not manage a team")
)
