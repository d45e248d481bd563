package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

type ApprovalServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	opts   Options
	status *StatusRefresher
}

// Approve implements attendance.ApprovalService.
func (s *ApprovalServiceImpl) Approve(ctx context.Context, principal auth.Principal, req attendance.ApproveRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !principal.Can(user.PermissionAttendanceApprove) {
		return attendance.AttendanceResponse{}, attendance.ErrNotApprover
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	record, err := s.AttendanceRepository.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("get attendance", err)
	}

	if record.UserID == principal.UserID {
		return attendance.AttendanceResponse{}, attendance.ErrSelfApproval
	}
	if !principal.IsAdmin() {
		approver, err := s.UserRepository.GetByID(ctx, principal.UserID)
		if err != nil {
			return attendance.AttendanceResponse{}, apperror.Store("get approver", err)
		}
		if !approver.Manages(record.TeamID) {
			return attendance.AttendanceResponse{}, attendance.ErrNotApprover
		}
	}

	if err := attendance.CheckDecision(record, req.ApprovalStatus); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	approverID := principal.UserID
	updated, err := s.AttendanceRepository.UpdateApproval(ctx, record.ID, record.ApprovalStatus, attendance.ApprovalUpdate{
		Status:     req.ApprovalStatus,
		ApprovedBy: &approverID,
		ApprovedAt: s.opts.Now().UTC(),
	})
	if err != nil {
		return attendance.AttendanceResponse{}, apperror.Store("update approval", err)
	}
	s.invalidate(record.UserID)

	slog.Info("Attendance decided", "attendance_id", record.ID, "approver_id", approverID, "approval_status", req.ApprovalStatus)
	return attendance.ToResponse(updated), nil
}

// AutoApprovePending implements attendance.ApprovalService.
func (s *ApprovalServiceImpl) AutoApprovePending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	cutoff = dateutil.Normalize(cutoff)
	n, err := s.AttendanceRepository.AutoApprovePending(ctx, cutoff, s.opts.Now().UTC())
	if err != nil {
		return 0, apperror.Store("auto approve pending", err)
	}
	if n > 0 {
		// Cached statuses of the affected users expire on their own.
		slog.Info("Auto-approved pending attendance", "cutoff", dateutil.Format(cutoff), "updated", n)
	}
	return n, nil
}

func (s *ApprovalServiceImpl) invalidate(userID string) {
	if s.status != nil {
		s.status.Invalidate(userID)
	}
}

// NewApprovalService wires the approval engine. status may be nil.
func NewApprovalService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	status *StatusRefresher,
	opts Options,
) attendance.ApprovalService {
	return &ApprovalServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		opts:                 opts.withDefaults(),
		status:               status,
	}
}
