package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// UserRateLimiter keeps one token bucket per user. Buckets that have refilled
// completely are dropped, since a new bucket behaves the same.
type UserRateLimiter struct {
	users      map[string]*rate.Limiter
	mu         sync.Mutex
	r          rate.Limit
	b          int
	now        func() time.Time
	lastPruned time.Time
}

const limiterPruneInterval = time.Minute

// NewUserRateLimiter allows perMinute requests per user with a burst of the
// same size.
func NewUserRateLimiter(perMinute int) *UserRateLimiter {
	return &UserRateLimiter{
		users:      make(map[string]*rate.Limiter),
		r:          rate.Every(time.Minute / time.Duration(perMinute)),
		b:          perMinute,
		now:        time.Now,
		lastPruned: time.Now(),
	}
}

func (l *UserRateLimiter) GetLimiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneIfDue()
	limiter, exists := l.users[userID]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.users[userID] = limiter
	}
	return limiter
}

// Len returns the number of users with a live bucket.
func (l *UserRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}

// l.mu must be held.
func (l *UserRateLimiter) pruneIfDue() {
	now := l.now()
	if now.Sub(l.lastPruned) < limiterPruneInterval {
		return
	}
	l.lastPruned = now
	for userID, limiter := range l.users {
		if limiter.TokensAt(now) >= float64(l.b) {
			delete(l.users, userID)
		}
	}
}

// Limit rejects a user's requests beyond the bucket with 429. It runs after
// AuthRequired; anonymous requests pass through.
func (l *UserRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if !l.GetLimiter(principal.UserID).AllowN(l.now(), 1) {
			response.TooManyRequests(w, "Too many clock requests, please wait a moment")
			return
		}
		next.ServeHTTP(w, r)
	})
}
