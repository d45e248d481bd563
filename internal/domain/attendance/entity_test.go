package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestHoursBetween(t *testing.T) {
	in := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 8.5, HoursBetween(in, in.Add(8*time.Hour+30*time.Minute)))
	assert.Equal(t, 0.33, HoursBetween(in, in.Add(20*time.Minute)))
	assert.Equal(t, 0.0, HoursBetween(in, in))
	assert.Equal(t, 0.0, HoursBetween(in, in.Add(-time.Minute)))
}

func TestCurrentState(t *testing.T) {
	out := time.Now()
	open := &Attendance{ID: "open"}
	closed := &Attendance{ID: "closed", ClockOut: &out}

	state, rec := CurrentState(nil, nil)
	assert.Equal(t, StateNotStarted, state)
	assert.Nil(t, rec)

	state, rec = CurrentState(open, nil)
	assert.Equal(t, StateClockedIn, state)
	assert.Equal(t, "open", rec.ID)

	state, rec = CurrentState(nil, closed)
	assert.Equal(t, StateClockedOut, state)
	assert.Equal(t, "closed", rec.ID)

	// yesterday's open session wins over today's view
	state, rec = CurrentState(open, closed)
	assert.Equal(t, StateClockedIn, state)
	assert.Equal(t, "open", rec.ID)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(ApprovalPending, ApprovalApproved))
	assert.True(t, CanTransition(ApprovalPending, ApprovalRejected))
	assert.True(t, CanTransition(ApprovalPending, ApprovalAutoApproved))

	for _, terminal := range []ApprovalStatus{ApprovalApproved, ApprovalRejected, ApprovalAutoApproved} {
		for _, to := range []ApprovalStatus{ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalAutoApproved} {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestCheckDecision(t *testing.T) {
	out := time.Now()
	closed := func(s ApprovalStatus) Attendance {
		return Attendance{ClockOut: &out, ApprovalStatus: s}
	}

	assert.NoError(t, CheckDecision(closed(ApprovalPending), ApprovalApproved))
	assert.NoError(t, CheckDecision(closed(ApprovalPending), ApprovalRejected))

	assert.ErrorIs(t, CheckDecision(closed(ApprovalPending), ApprovalAutoApproved), ErrInvalidDecision)
	assert.ErrorIs(t, CheckDecision(Attendance{ApprovalStatus: ApprovalPending}, ApprovalApproved), ErrSessionStillOpen)
	assert.ErrorIs(t, CheckDecision(closed(ApprovalApproved), ApprovalApproved), ErrDuplicateDecision)
	assert.ErrorIs(t, CheckDecision(closed(ApprovalApproved), ApprovalRejected), ErrAlreadyDecided)
	assert.ErrorIs(t, CheckDecision(closed(ApprovalAutoApproved), ApprovalRejected), ErrAlreadyDecided)

	err := CheckDecision(closed(ApprovalRejected), ApprovalRejected)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestStatusIsPresence(t *testing.T) {
	assert.True(t, StatusPresent.IsPresence())
	assert.True(t, StatusHalfDay.IsPresence())
	assert.True(t, StatusExtraWork.IsPresence())
	assert.False(t, StatusAbsent.IsPresence())
	assert.False(t, StatusLeave.IsPresence())
}

func TestClockOutRequest_Validate(t *testing.T) {
	req := ClockOutRequest{TasksDone: "   "}
	err := req.Validate()
	assert.ErrorIs(t, err, apperror.ErrValidation)

	req = ClockOutRequest{TasksDone: "  shipped report \n"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "shipped report", req.TasksDone)
}

func TestClockInRequest_Validate(t *testing.T) {
	ok := ClockInRequest{WorkLocation: WorkLocationRemote, Timezone: "Asia/Jakarta"}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, "Asia/Jakarta", ok.Location().String())

	utc := ClockInRequest{WorkLocation: WorkLocationOnsite}
	assert.NoError(t, utc.Validate())
	assert.Equal(t, time.UTC, utc.Location())

	bad := ClockInRequest{WorkLocation: "Beach", Timezone: "Nowhere/City"}
	err := bad.Validate()
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Len(t, err.(interface{ ToMap() map[string]string }).ToMap(), 2)
}
