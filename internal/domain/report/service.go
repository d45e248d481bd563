package report

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

// ReportService serves attendance statistics and the approval queues.
type ReportService interface {
	Reports(ctx context.Context, principal auth.Principal, req ReportRequest) (ReportResponse, error)

	// Export computes the same report as Reports for WriteCSV.
	Export(ctx context.Context, principal auth.Principal, req ReportRequest) (Report, error)

	TeamAttendance(ctx context.Context, principal auth.Principal, req QueueRequest) (QueueResponse, error)
	AllAttendance(ctx context.Context, principal auth.Principal, req QueueRequest) (QueueResponse, error)
}
