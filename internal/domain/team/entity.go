package team

// Team is owned by team management; this service only reads it.
type Team struct {
	ID           string
	Name         string
	ManagerID    *string
	DepartmentID *string
	MemberIDs    []string
}

func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
