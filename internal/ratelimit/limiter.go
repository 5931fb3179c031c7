// Package ratelimit implements the fixed-window admission counter that gates
// login and sale-submission attempts. State is in-process only; a multi-node
// deployment needs a shared store behind the same Admit contract.
package ratelimit

import (
	"sync"
	"time"
)

const defaultMaxEntries = 10_000

type window struct {
	start time.Time
	count int
}

// Limiter counts requests per (endpoint class, key) within a fixed window.
// Stale windows are reclaimed lazily on access; there is no background sweep.
type Limiter struct {
	window     time.Duration
	limits     map[string]int
	now        func() time.Time
	maxEntries int

	mu      sync.Mutex
	windows map[string]*window
}

// New creates a Limiter. limits maps an endpoint class (e.g. "auth", "sales")
// to its maximum admitted count per window; classes absent from the map, or
// with a non-positive limit, are unlimited. now may be nil, in which case
// time.Now is used.
func New(windowLen time.Duration, limits map[string]int, now func() time.Time) *Limiter {
	if windowLen <= 0 {
		windowLen = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		window:     windowLen,
		limits:     limits,
		now:        now,
		maxEntries: defaultMaxEntries,
		windows:    make(map[string]*window),
	}
}

// Admit reports whether another request from key may proceed for the given
// class. It increments the current window's count; once the count exceeds the
// class limit within the window, Admit returns false until the window rolls.
func (l *Limiter) Admit(key, class string) bool {
	limit, limited := l.limits[class]
	if !limited || limit <= 0 {
		return true
	}

	now := l.now()
	k := class + ":" + key

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[k]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[k] = &window{start: now, count: 1}
		l.evictLocked(now)
		return true
	}

	w.count++
	return w.count <= limit
}

// evictLocked drops expired windows once the table grows past maxEntries,
// bounding memory for churning key sets.
func (l *Limiter) evictLocked(now time.Time) {
	if len(l.windows) < l.maxEntries {
		return
	}
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, k)
		}
	}
}
