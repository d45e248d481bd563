package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"golang.org/x/sync/singleflight"
)

type statusFetchFunc func(ctx context.Context, userID string, loc *time.Location) (attendance.CurrentStatusResponse, error)

type statusEntry struct {
	resp      attendance.CurrentStatusResponse
	fetchedAt time.Time
}

type userStatus struct {
	entries    map[string]statusEntry // timezone -> entry
	generation uint64
	inflight   int
}

// StatusRefresher serves a user's current status at most once per interval.
// Concurrent refreshes for the same key share one store round trip, and a
// forced refresh skips the interval.
type StatusRefresher struct {
	interval time.Duration
	now      func() time.Time
	fetch    statusFetchFunc
	sf       singleflight.Group

	mu         sync.Mutex
	users      map[string]*userStatus
	lastPruned time.Time
}

func NewStatusRefresher(interval time.Duration, now func() time.Time, fetch statusFetchFunc) *StatusRefresher {
	return &StatusRefresher{
		interval:   interval,
		now:        now,
		fetch:      fetch,
		users:      make(map[string]*userStatus),
		lastPruned: now(),
	}
}

func (r *StatusRefresher) Get(ctx context.Context, userID string, loc *time.Location, force bool) (attendance.CurrentStatusResponse, error) {
	tz := loc.String()

	r.mu.Lock()
	r.pruneIfDue()
	var entry statusEntry
	var ok bool
	if st := r.users[userID]; st != nil {
		entry, ok = st.entries[tz]
	}
	r.mu.Unlock()

	if ok && !force && r.now().Sub(entry.fetchedAt) < r.interval {
		return entry.resp, nil
	}

	// The shared fetch outlives any single caller and relies on the store
	// timeout applied by fetch. Each caller still gives up on its own ctx.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.sf.DoChan(userID+"|"+tz, func() (interface{}, error) {
		gen := r.begin(userID)
		defer r.end(userID)

		resp, err := r.fetch(fetchCtx, userID, loc)
		if err != nil {
			return nil, err
		}
		r.store(userID, tz, gen, resp)
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return attendance.CurrentStatusResponse{}, apperror.Store("current status", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return attendance.CurrentStatusResponse{}, res.Err
		}
		return res.Val.(attendance.CurrentStatusResponse), nil
	}
}

// Invalidate drops every cached status of userID. A fetch already in flight
// will not repopulate the cache.
func (r *StatusRefresher) Invalidate(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.users[userID]
	if st == nil {
		return
	}
	clear(st.entries)
	st.generation++
}

// Len returns the number of users the refresher holds state for.
func (r *StatusRefresher) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// begin marks a fetch for userID in flight and returns the generation it
// started under.
func (r *StatusRefresher) begin(userID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.users[userID]
	if st == nil {
		st = &userStatus{entries: make(map[string]statusEntry)}
		r.users[userID] = st
	}
	st.inflight++
	return st.generation
}

func (r *StatusRefresher) end(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st := r.users[userID]; st != nil {
		st.inflight--
	}
}

func (r *StatusRefresher) store(userID, tz string, gen uint64, resp attendance.CurrentStatusResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.users[userID]
	if st == nil || st.generation != gen {
		return
	}
	st.entries[tz] = statusEntry{resp: resp, fetchedAt: r.now()}
}

// pruneIfDue drops expired entries, and users left with no entries and no
// fetch in flight, at most once per interval. r.mu must be held.
func (r *StatusRefresher) pruneIfDue() {
	now := r.now()
	if now.Sub(r.lastPruned) < r.interval {
		return
	}
	r.lastPruned = now
	for userID, st := range r.users {
		for tz, entry := range st.entries {
			if now.Sub(entry.fetchedAt) >= r.interval {
				delete(st.entries, tz)
			}
		}
		if len(st.entries) == 0 && st.inflight == 0 {
			delete(r.users, userID)
		}
	}
}
