package middleware

import (
	"context"
	"sync"
	"time"
)

const (
	loginMaxAttempts    = 5
	loginWindowDuration = time.Minute
	loginCleanupPeriod  = 5 * time.Minute
)

type loginAttempt struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter is the in-process fixed window limiter used when no
// Redis is configured.
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	lastCleanup time.Time
	now         func() time.Time
}

func NewLoginRateLimiter() *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string]*loginAttempt),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *LoginRateLimiter) cleanup(now time.Time, window time.Duration) {
	if now.Sub(l.lastCleanup) < loginCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for key, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > window {
			delete(l.attempts, key)
		}
	}
}

func (l *LoginRateLimiter) CheckLimit(_ context.Context, key string, limit int, window time.Duration) (bool, time.Time) {
	if window <= 0 {
		window = loginWindowDuration
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now, window)

	attempt, exists := l.attempts[key]

	if !exists {
		l.attempts[key] = &loginAttempt{
			count:       1,
			windowStart: now,
		}
		return true, now.Add(window)
	}

	if now.Sub(attempt.windowStart) > window {
		attempt.count = 1
		attempt.windowStart = now
		return true, now.Add(window)
	}

	resetAt := attempt.windowStart.Add(window)
	if attempt.count >= limit {
		return false, resetAt
	}

	attempt.count++
	return true, resetAt
}
