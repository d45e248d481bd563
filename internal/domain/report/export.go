package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

var summaryHeader = []string{
	"Name",
	"Role",
	"Team",
	"Department",
	"Total Present",
	"Total Absent",
	"Attendance %",
	"Avg Hours/Day",
	"Remote",
	"Onsite",
}

// exportRoleOrder is the order of the role groups in the export.
var exportRoleOrder = []user.Role{user.RoleAdmin, user.RoleManager, user.RoleEmployee}

// WriteCSV writes one row per user, grouped by role: the summary columns
// followed by one column per day of the report range.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(summaryHeader)+len(r.Days))
	header = append(header, summaryHeader...)
	for _, d := range r.Days {
		header = append(header, dateutil.Format(d.Date))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	byRole := r.UsersByRole()
	for _, u := range exportOrder(byRole) {
		row := make([]string, 0, len(header))
		row = append(row,
			safeCell(u.User.Name),
			string(u.User.Role),
			safeCell(teamLabel(u)),
			safeCell(u.User.Department()),
			strconv.Itoa(u.Stats.TotalValidPresent),
			strconv.Itoa(u.Stats.TotalAbsent),
			strconv.Itoa(u.Stats.AttendancePercentage),
			strconv.FormatFloat(u.Stats.AvgHoursWorked, 'f', 2, 64),
			strconv.Itoa(u.Stats.RemoteWork),
			strconv.Itoa(u.Stats.OnsiteWork),
		)
		row = append(row, u.Daily...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for user %s: %w", u.User.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// exportOrder flattens the role groups in exportRoleOrder, then any other
// role in name order.
func exportOrder(byRole map[user.Role][]UserReport) []UserReport {
	var out []UserReport
	for _, role := range exportRoleOrder {
		out = append(out, byRole[role]...)
	}
	rest := make([]user.Role, 0, len(byRole))
	for role := range byRole {
		if !slices.Contains(exportRoleOrder, role) {
			rest = append(rest, role)
		}
	}
	slices.Sort(rest)
	for _, role := range rest {
		out = append(out, byRole[role]...)
	}
	return out
}

// safeCell keeps spreadsheet applications from evaluating a user supplied
// value as a formula.
func safeCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func teamLabel(u UserReport) string {
	if u.User.TeamName != nil && *u.User.TeamName != "" {
		return *u.User.TeamName
	}
	if u.User.TeamID != nil {
		return *u.User.TeamID
	}
	return UnassignedTeam
}
