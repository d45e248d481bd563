package user

type Permission string

const (
	// Attendance
	PermissionAttendanceClock    Permission = "attendance.clock"
	PermissionAttendanceViewOwn  Permission = "attendance.view_own"
	PermissionAttendanceViewTeam Permission = "attendance.view_team"
	PermissionAttendanceViewAll  Permission = "attendance.view_all"
	PermissionAttendanceApprove  Permission = "attendance.approve"
	PermissionAttendanceSweep    Permission = "attendance.sweep"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// Holidays
	PermissionHolidayView   Permission = "holiday.view"
	PermissionHolidayManage Permission = "holiday.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewTeam,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionAttendanceSweep,
		PermissionReportsView,
		PermissionHolidayView,
		PermissionHolidayManage,
	},
	RoleManager: {
		// Manager approves and reports on their own team
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewTeam,
		PermissionAttendanceApprove,
		PermissionReportsView,
		PermissionHolidayView,
	},
	RoleEmployee: {
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionHolidayView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
