package attendance

// transitions lists the approval states reachable from each state through
// the engine. Approved, Rejected and Auto-Approved are terminal.
var transitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalPending: {ApprovalApproved, ApprovalRejected, ApprovalAutoApproved},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to ApprovalStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsDecision reports whether s can be chosen by an approver.
func IsDecision(s ApprovalStatus) bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// CheckDecision validates an approver's decision against the record's
// current state without looking at who the approver is.
func CheckDecision(a Attendance, decision ApprovalStatus) error {
	if !IsDecision(decision) {
		return ErrInvalidDecision
	}
	if a.IsOpen() {
		return ErrSessionStillOpen
	}
	if a.ApprovalStatus == decision {
		return ErrDuplicateDecision
	}
	if !CanTransition(a.ApprovalStatus, decision) {
		return ErrAlreadyDecided
	}
	return nil
}
