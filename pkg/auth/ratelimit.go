package auth

import (
	"sync"
	"time"
)

// LoginLimiter throttles repeated failed login attempts per username
// with an in-memory sliding window. Successful logins clear the window.
type LoginLimiter struct {
	maxFailures int
	window      time.Duration

	mu       sync.Mutex
	counters map[string]*failureWindow
}

type failureWindow struct {
	failures int
	windowAt time.Time
}

// NewLoginLimiter creates a limiter allowing maxFailures failed attempts
// per username within the window.
func NewLoginLimiter(maxFailures int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		maxFailures: maxFailures,
		window:      window,
		counters:    make(map[string]*failureWindow),
	}
}

// Allow reports whether a login attempt for the username may proceed.
func (l *LoginLimiter) Allow(username string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counters[username]
	if !ok || time.Since(c.windowAt) >= l.window {
		return true
	}
	return c.failures < l.maxFailures
}

// RecordFailure counts a failed attempt against the username.
func (l *LoginLimiter) RecordFailure(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.counters[username]
	if !ok || now.Sub(c.windowAt) >= l.window {
		l.counters[username] = &failureWindow{failures: 1, windowAt: now}
		return
	}
	c.failures++
}

// Reset clears the failure window for the username.
func (l *LoginLimiter) Reset(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counters, username)
}
