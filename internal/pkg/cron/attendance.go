package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

const autoApproveJobName = "auto_approve_pending_attendances"

type AttendanceJobs struct {
	approvalService      attendance.ApprovalService
	autoApproveAfterDays int
	interval             time.Duration
	timeout              time.Duration
	now                  func() time.Time
}

// NewAttendanceJobs builds the attendance sweeps. Pending records older than
// autoApproveAfterDays calendar days are auto-approved every interval.
func NewAttendanceJobs(approvalService attendance.ApprovalService, autoApproveAfterDays int, interval, timeout time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		approvalService:      approvalService,
		autoApproveAfterDays: autoApproveAfterDays,
		interval:             interval,
		timeout:              timeout,
		now:                  time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:     autoApproveJobName,
		Interval: j.interval,
		Timeout:  j.timeout,
		Fn:       j.AutoApprovePending,
	})
}

// AutoApprovePending approves every closed Pending record dated before the
// cutoff day. Re-running within the same day changes nothing.
func (j *AttendanceJobs) AutoApprovePending(ctx context.Context) error {
	cutoff := j.Cutoff()

	n, err := j.approvalService.AutoApprovePending(ctx, cutoff)
	if err != nil {
		return err
	}

	slog.Info("Cron: Auto-approve sweep finished", "cutoff", dateutil.Format(cutoff), "updated", n)
	return nil
}

// Cutoff returns today (UTC) minus the configured grace period.
func (j *AttendanceJobs) Cutoff() time.Time {
	return dateutil.LocalDay(j.now(), time.UTC).AddDate(0, 0, -j.autoApproveAfterDays)
}
