package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

// ClockService runs the daily clock-in / clock-out lifecycle.
type ClockService interface {
	ClockIn(ctx context.Context, principal auth.Principal, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, principal auth.Principal, req ClockOutRequest) (AttendanceResponse, error)
	// CurrentStatus may be served from a short lived cache unless req.Force is set.
	CurrentStatus(ctx context.Context, principal auth.Principal, req CurrentStatusRequest) (CurrentStatusResponse, error)
}

// ApprovalService decides approval status of closed records.
type ApprovalService interface {
	Approve(ctx context.Context, principal auth.Principal, req ApproveRequest) (AttendanceResponse, error)

	// AutoApprovePending is idempotent; re-running with the same cutoff changes nothing.
	AutoApprovePending(ctx context.Context, cutoff time.Time) (int64, error)
}
