package report

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

const UnassignedTeam = "Unassigned"

// Grouped is an approval queue split into managers' own records and
// everyone else's records keyed by team name.
type Grouped struct {
	Managers []attendance.Attendance
	Teams    map[string][]attendance.Attendance
}

// GroupByRoleAndTeam partitions records by the owner's role and team. It
// keeps input order inside each group and never fails, including for nil input.
func GroupByRoleAndTeam(records []attendance.Attendance) Grouped {
	g := Grouped{
		Managers: []attendance.Attendance{},
		Teams:    map[string][]attendance.Attendance{},
	}
	for _, r := range records {
		if r.UserRole != nil && user.Role(*r.UserRole) == user.RoleManager {
			g.Managers = append(g.Managers, r)
			continue
		}
		key := TeamKey(r)
		g.Teams[key] = append(g.Teams[key], r)
	}
	return g
}

// TeamKey names the team a record is filed under.
func TeamKey(r attendance.Attendance) string {
	if r.TeamID == nil || *r.TeamID == "" {
		return UnassignedTeam
	}
	if r.TeamName != nil && *r.TeamName != "" {
		return *r.TeamName
	}
	return *r.TeamID
}
