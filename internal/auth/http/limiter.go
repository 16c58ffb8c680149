package http

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// emailLimiter throttles credential attempts per email address. Entries idle
// long enough for their bucket to refill are dropped, since a fresh limiter
// behaves identically.
type emailLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	refill    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newEmailLimiter(perMinute int) *emailLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	interval := time.Minute / time.Duration(perMinute)
	return &emailLimiter{
		entries: make(map[string]*limiterEntry),
		rate:    rate.Every(interval),
		burst:   perMinute,
		refill:  interval * time.Duration(perMinute),
		now:     time.Now,
	}
}

// Allow reports whether another attempt for email may proceed now.
func (l *emailLimiter) Allow(email string) bool {
	key := strings.ToLower(strings.TrimSpace(email))
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.refill {
		l.sweep(now)
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep must be called with mu held.
func (l *emailLimiter) sweep(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.refill {
			delete(l.entries, key)
		}
	}
	l.lastSweep = now
}

func (l *emailLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
