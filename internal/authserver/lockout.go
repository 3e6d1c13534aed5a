package authserver

import (
	"strings"
	"sync"
	"time"
)

// lockout tracks failed sign-ins per email within a sliding window
type lockout struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	failures map[string][]time.Time
}

func newLockout(max int, window time.Duration) *lockout {
	return &lockout{
		max:      max,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

// Locked reports whether email has reached the failure limit
func (l *lockout) Locked(email string, now time.Time) bool {
	if l.max <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := strings.ToLower(email)
	recent := l.pruneLocked(key, now)
	return len(recent) >= l.max
}

// Fail records a failed attempt. Nothing is kept when lockout is disabled.
func (l *lockout) Fail(email string, now time.Time) {
	if l.max <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := strings.ToLower(email)
	l.failures[key] = append(l.pruneLocked(key, now), now)
}

// Reset clears the failures of email
func (l *lockout) Reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, strings.ToLower(email))
}

// pruneLocked drops failures older than the window. Caller holds mu.
func (l *lockout) pruneLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.failures[key][:0]
	for _, at := range l.failures[key] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(l.failures, key)
		return nil
	}
	l.failures[key] = kept
	return kept
}
