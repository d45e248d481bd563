package attendance

// SessionState is the daily lifecycle of a user's attendance.
type SessionState string

const (
	StateNotStarted SessionState = "NotStarted"
	StateClockedIn  SessionState = "ClockedIn"
	StateClockedOut SessionState = "ClockedOut"
)

// CurrentState derives the session state from the user's open session (if
// any) and the record dated today (if any). An open session from a previous
// day still counts as clocked in; sessions crossing midnight are not split.
func CurrentState(open *Attendance, today *Attendance) (SessionState, *Attendance) {
	if open != nil {
		return StateClockedIn, open
	}
	if today != nil {
		if today.IsOpen() {
			return StateClockedIn, today
		}
		return StateClockedOut, today
	}
	return StateNotStarted, nil
}
