package transport

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit bounds how often one user may call the API.
type RateLimit struct {
	RequestsPerMinute float64
	Burst             int
}

// RateLimiter keeps a token bucket per user. Idle buckets are dropped after
// idleTTL.
type RateLimiter struct {
	limit   RateLimit
	mu      sync.Mutex
	users   map[string]*userLimiter
	now     func() time.Time
	idleTTL time.Duration
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. Non-positive rates fall back to one
// request per second.
func NewRateLimiter(limit RateLimit) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		users:   make(map[string]*userLimiter),
		now:     time.Now,
		idleTTL: 10 * time.Minute,
	}
}

// Middleware rejects requests over the caller's budget with 429. It must run
// after the user is resolved.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserFromContext(r.Context())
		if !l.allow(userID) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.users[userID]
	if !ok {
		entry = &userLimiter{limiter: rate.NewLimiter(l.perSecond(), l.burst())}
		l.users[userID] = entry
		l.sweep(now)
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *RateLimiter) sweep(now time.Time) {
	for id, entry := range l.users {
		if now.Sub(entry.lastSeen) > l.idleTTL && !entry.lastSeen.IsZero() {
			delete(l.users, id)
		}
	}
}

func (l *RateLimiter) perSecond() rate.Limit {
	perSecond := l.limit.RequestsPerMinute / 60.0
	if perSecond <= 0 {
		perSecond = 1
	}
	return rate.Limit(perSecond)
}

func (l *RateLimiter) burst() int {
	if l.limit.Burst <= 0 {
		return 1
	}
	return l.limit.Burst
}
