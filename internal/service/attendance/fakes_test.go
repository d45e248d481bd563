package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
)

// memAttendanceRepo mimics the store constraints: unique (user_id, date) and
// at most one open session per user.
type memAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	order   []string

	// err, when set, is returned by every call.
	err error
	// calls counts GetOpenSession calls.
	calls int
}

func newMemAttendanceRepo(records ...attendance.Attendance) *memAttendanceRepo {
	r := &memAttendanceRepo{records: make(map[string]attendance.Attendance)}
	for _, a := range records {
		r.records[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r
}

func (r *memAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return attendance.Attendance{}, r.err
	}
	for _, existing := range r.records {
		if existing.UserID != a.UserID {
			continue
		}
		if existing.IsOpen() {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		if existing.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyRecordedDay
		}
	}
	a.CreatedAt = a.ClockIn
	a.UpdatedAt = a.ClockIn
	r.records[a.ID] = a
	r.order = append(r.order, a.ID)
	return a, nil
}

func (r *memAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return attendance.Attendance{}, r.err
	}
	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *memAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, id := range r.order {
		a := r.records[id]
		if a.UserID == userID && a.Date.Equal(dateutil.Normalize(date)) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAttendanceRepo) GetOpenSession(ctx context.Context, userID string) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, id := range r.order {
		a := r.records[id]
		if a.UserID == userID && a.IsOpen() {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAttendanceRepo) Close(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return attendance.Attendance{}, r.err
	}
	stored, ok := r.records[a.ID]
	if !ok || !stored.IsOpen() {
		return attendance.Attendance{}, attendance.ErrNotClockedIn
	}
	stored.ClockOut = a.ClockOut
	stored.HoursWorked = a.HoursWorked
	stored.TasksDone = a.TasksDone
	stored.Status = a.Status
	stored.ApprovalStatus = a.ApprovalStatus
	stored.UpdatedAt = *a.ClockOut
	r.records[a.ID] = stored
	return stored, nil
}

func (r *memAttendanceRepo) UpdateApproval(ctx context.Context, id string, expected attendance.ApprovalStatus, u attendance.ApprovalUpdate) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return attendance.Attendance{}, r.err
	}
	stored, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if stored.ApprovalStatus != expected {
		return attendance.Attendance{}, attendance.ErrAlreadyDecided
	}
	at := u.ApprovedAt
	stored.ApprovalStatus = u.Status
	stored.ApprovedBy = u.ApprovedBy
	stored.ApprovedAt = &at
	r.records[id] = stored
	return stored, nil
}

func (r *memAttendanceRepo) AutoApprovePending(ctx context.Context, cutoff time.Time, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for id, a := range r.records {
		if a.ApprovalStatus == attendance.ApprovalPending && !a.IsOpen() && a.Date.Before(cutoff) {
			approvedAt := at
			a.ApprovalStatus = attendance.ApprovalAutoApproved
			a.ApprovedAt = &approvedAt
			r.records[id] = a
			n++
		}
	}
	return n, nil
}

func (r *memAttendanceRepo) ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	return r.List(ctx, attendance.ListFilter{StartDate: start, EndDate: end, UserIDs: []string{userID}})
}

func (r *memAttendanceRepo) List(ctx context.Context, f attendance.ListFilter) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []attendance.Attendance
	for _, id := range r.order {
		a := r.records[id]
		if a.Date.Before(f.StartDate) || a.Date.After(f.EndDate) {
			continue
		}
		if f.TeamID != nil && (a.TeamID == nil || *a.TeamID != *f.TeamID) {
			continue
		}
		if len(f.UserIDs) > 0 && !contains(f.UserIDs, a.UserID) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memAttendanceRepo) get(id string) attendance.Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id]
}

func (r *memAttendanceRepo) openCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.records {
		if a.UserID == userID && a.IsOpen() {
			n++
		}
	}
	return n
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

type memUserRepo struct {
	users map[string]user.User
}

func newMemUserRepo(users ...user.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) List(ctx context.Context, f user.ListFilter) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if f.TeamID != nil && (u.TeamID == nil || *u.TeamID != *f.TeamID) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memHolidayRepo struct {
	holidays []holiday.Holiday
}

func (r *memHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.holidays = append(r.holidays, h)
	return h, nil
}

func (r *memHolidayRepo) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	for _, h := range r.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (r *memHolidayRepo) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	return h, nil
}

func (r *memHolidayRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (r *memHolidayRepo) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memHolidayRepo) ListByDate(ctx context.Context, date time.Time) ([]holiday.Holiday, error) {
	return r.ListBetween(ctx, date, date)
}

func (r *memHolidayRepo) LockDate(ctx context.Context, date time.Time) error {
	return nil
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
