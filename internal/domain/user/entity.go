package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, approves anyone
	RoleManager  Role = "manager"  // Approves attendance of the team they manage
	RoleEmployee Role = "employee" // Regular employee
)

// User is the read-only view of an account owned by the employee directory.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	DepartmentID *string
	TeamID       *string

	// Join
	TeamName      *string
	ManagedTeamID *string
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user manages a team
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// Manages reports whether u is the manager of teamID.
func (u *User) Manages(teamID *string) bool {
	if !u.IsManager() || u.ManagedTeamID == nil || teamID == nil {
		return false
	}
	return *u.ManagedTeamID == *teamID
}

// Department returns the department id or "" when unassigned.
func (u *User) Department() string {
	if u.DepartmentID == nil {
		return ""
	}
	return *u.DepartmentID
}
