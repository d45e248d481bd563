package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const (
	attendanceOpenSessionKey = "attendances_open_session_key"
	attendanceUserDateKey    = "attendances_user_date_key"
)

// attendanceSelect reads attendances aliased as "a" with the joined user and
// team fields. Statements that modify rows expose them as a CTE named "a".
const attendanceSelect = `
	SELECT a.id, a.user_id, a.date, a.clock_in, a.clock_out, a.hours_worked,
		   a.work_location, a.tasks_done, a.status, a.approval_status,
		   a.approved_by, a.approved_at, a.team_id, a.timezone,
		   a.created_at, a.updated_at,
		   u.name, u.role, u.department_id, t.name
	FROM %s a
	LEFT JOIN users u ON u.id = a.user_id
	LEFT JOIN teams t ON t.id = a.team_id
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &att.ClockIn, &att.ClockOut, &att.HoursWorked,
		&att.WorkLocation, &att.TasksDone, &att.Status, &att.ApprovalStatus,
		&att.ApprovedBy, &att.ApprovedAt, &att.TeamID, &att.Timezone,
		&att.CreatedAt, &att.UpdatedAt,
		&att.UserName, &att.UserRole, &att.DepartmentID, &att.TeamName,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, user_id, date, clock_in, work_location, status, approval_status, team_id, timezone
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.UserID,
		newAttendance.Date,
		newAttendance.ClockIn,
		newAttendance.WorkLocation,
		newAttendance.Status,
		newAttendance.ApprovalStatus,
		newAttendance.TeamID,
		newAttendance.Timezone,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		switch uniqueConstraint(err) {
		case attendanceOpenSessionKey:
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		case attendanceUserDateKey:
			return attendance.Attendance{}, attendance.ErrAlreadyRecordedDay
		}
		return attendance.Attendance{}, storeError("create attendance", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	// A malformed id cannot match the uuid column.
	if !validator.IsValidUUID(id) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(attendanceSelect, "attendances") + ` WHERE a.id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, storeError("get attendance", err)
	}
	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(attendanceSelect, "attendances") + ` WHERE a.user_id = $1 AND a.date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No attendance for that day
		}
		return nil, storeError("get attendance by user and date", err)
	}
	return &att, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetOpenSession(ctx context.Context, userID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(attendanceSelect, "attendances") + `
		WHERE a.user_id = $1
		  AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get open session", err)
	}
	return &att, nil
}

// Close implements attendance.AttendanceRepository.
func (r *attendanceRepository) Close(ctx context.Context, closed attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH closed AS (
			UPDATE attendances
			SET clock_out = $2,
				hours_worked = $3,
				tasks_done = $4,
				status = $5,
				approval_status = $6,
				updated_at = NOW()
			WHERE id = $1
			  AND clock_out IS NULL
			RETURNING *
		)` + fmt.Sprintf(attendanceSelect, "closed")

	att, err := scanAttendance(q.QueryRow(ctx, query,
		closed.ID,
		closed.ClockOut,
		closed.HoursWorked,
		closed.TasksDone,
		closed.Status,
		closed.ApprovalStatus,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNotClockedIn
		}
		return attendance.Attendance{}, storeError("close attendance", err)
	}
	return att, nil
}

// UpdateApproval implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpdateApproval(ctx context.Context, id string, expected attendance.ApprovalStatus, update attendance.ApprovalUpdate) (attendance.Attendance, error) {
	if !validator.IsValidUUID(id) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		WITH decided AS (
			UPDATE attendances
			SET approval_status = $3,
				approved_by = $4,
				approved_at = $5,
				updated_at = NOW()
			WHERE id = $1
			  AND approval_status = $2
			  AND clock_out IS NOT NULL
			RETURNING *
		)` + fmt.Sprintf(attendanceSelect, "decided")

	att, err := scanAttendance(q.QueryRow(ctx, query, id, expected, update.Status, update.ApprovedBy, update.ApprovedAt))
	if err == nil {
		return att, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, storeError("update approval", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM attendances WHERE id = $1)`, id).Scan(&exists); err != nil {
		return attendance.Attendance{}, storeError("check attendance", err)
	}
	if !exists {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return attendance.Attendance{}, attendance.ErrAlreadyDecided
}

// AutoApprovePending implements attendance.AttendanceRepository.
func (r *attendanceRepository) AutoApprovePending(ctx context.Context, cutoff time.Time, at time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET approval_status = $1,
			approved_at = $2,
			updated_at = NOW()
		WHERE approval_status = $3
		  AND clock_out IS NOT NULL
		  AND date < $4
	`

	tag, err := q.Exec(ctx, query, attendance.ApprovalAutoApproved, at, attendance.ApprovalPending, cutoff)
	if err != nil {
		return 0, storeError("auto approve pending attendances", err)
	}
	return tag.RowsAffected(), nil
}

// ListByUserBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	return r.List(ctx, attendance.ListFilter{StartDate: start, EndDate: end, UserIDs: []string{userID}})
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	where := []string{"a.date >= $1", "a.date <= $2"}
	args := []interface{}{filter.StartDate, filter.EndDate}
	argIdx := 3

	if filter.TeamID != nil && *filter.TeamID != "" {
		where = append(where, fmt.Sprintf("a.team_id = $%d", argIdx))
		args = append(args, *filter.TeamID)
		argIdx++
	}

	if len(filter.UserIDs) > 0 {
		where = append(where, fmt.Sprintf("a.user_id = ANY($%d)", argIdx))
		args = append(args, filter.UserIDs)
	}

	query := fmt.Sprintf(attendanceSelect, "attendances") +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY a.date ASC, u.name ASC, a.clock_in ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("list attendances", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, storeError("scan attendance", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate attendances", err)
	}
	return records, nil
}
