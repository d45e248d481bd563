package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

const (
	adminID     = "0192a000-0000-7000-8000-000000000001"
	managerID   = "0192a000-0000-7000-8000-000000000002"
	employeeID  = "0192a000-0000-7000-8000-000000000003"
	outsiderID  = "0192a000-0000-7000-8000-000000000004"
	otherMgrID  = "0192a000-0000-7000-8000-000000000005"
	teamAlphaID = "0192a000-0000-7000-8000-0000000000a1"
	teamBetaID  = "0192a000-0000-7000-8000-0000000000b1"
	deptEngID   = "0192a000-0000-7000-8000-0000000000e1"
)

func ptr[T any](v T) *T { return &v }

func directory() *memUserRepo {
	return newMemUserRepo(
		user.User{ID: adminID, Name: "Ada", Role: user.RoleAdmin},
		user.User{ID: managerID, Name: "Mona", Role: user.RoleManager, TeamID: ptr(teamAlphaID), ManagedTeamID: ptr(teamAlphaID), DepartmentID: ptr(deptEngID)},
		user.User{ID: employeeID, Name: "Eli", Role: user.RoleEmployee, TeamID: ptr(teamAlphaID), TeamName: ptr("Alpha"), DepartmentID: ptr(deptEngID)},
		user.User{ID: outsiderID, Name: "Olga", Role: user.RoleEmployee, TeamID: ptr(teamBetaID), TeamName: ptr("Beta")},
		user.User{ID: otherMgrID, Name: "Bert", Role: user.RoleManager, TeamID: ptr(teamBetaID), ManagedTeamID: ptr(teamBetaID)},
	)
}

func principal(id string, role user.Role) auth.Principal {
	return auth.Principal{UserID: id, Role: role}
}

type fixture struct {
	clock     *fakeClock
	records   *memAttendanceRepo
	users     *memUserRepo
	holidays  *memHolidayRepo
	clockSvc  *ClockServiceImpl
	approvals attendance.ApprovalService
}

func newFixture(start time.Time, records ...attendance.Attendance) *fixture {
	f := &fixture{
		clock:    &fakeClock{now: start},
		records:  newMemAttendanceRepo(records...),
		users:    directory(),
		holidays: &memHolidayRepo{},
	}
	opts := Options{Now: f.clock.Now, StatusRefreshInterval: 30 * time.Second}
	f.clockSvc = NewClockService(f.records, f.users, f.holidays, opts)
	f.approvals = NewApprovalService(f.records, f.users, f.clockSvc.Status(), opts)
	return f
}

func (f *fixture) addHoliday(h holiday.Holiday) {
	f.holidays.holidays = append(f.holidays.holidays, h)
}

// closedRecord is a finished, Pending session of userID on day.
func closedRecord(id, userID string, teamID *string, day time.Time) attendance.Attendance {
	in := day.Add(9 * time.Hour)
	out := day.Add(17 * time.Hour)
	return attendance.Attendance{
		ID:             id,
		UserID:         userID,
		Date:           day,
		ClockIn:        in,
		ClockOut:       &out,
		HoursWorked:    ptr(8.0),
		WorkLocation:   attendance.WorkLocationOnsite,
		TasksDone:      ptr("work"),
		Status:         attendance.StatusPresent,
		ApprovalStatus: attendance.ApprovalPending,
		TeamID:         teamID,
		Timezone:       "UTC",
	}
}
