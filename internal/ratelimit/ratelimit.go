// Package ratelimit enforces a per-requester cooldown between downloads so a
// single caller cannot monopolise the downloader.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks the last acquisition time per requester key.
type Limiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[string]time.Time
	now      func() time.Time
}

// New returns a limiter with the given cooldown. A zero or negative cooldown
// disables limiting.
func New(cooldown time.Duration) *Limiter {
	return &Limiter{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// TryAcquire reports whether key may proceed now. On refusal it returns the
// time remaining until the next permitted attempt.
func (l *Limiter) TryAcquire(key string) (bool, time.Duration) {
	if l == nil || l.cooldown <= 0 || key == "" {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if prev, ok := l.last[key]; ok {
		if wait := l.cooldown - now.Sub(prev); wait > 0 {
			return false, wait
		}
	}
	l.last[key] = now
	return true, 0
}

// Reset forgets the given requester, letting its next attempt through
// immediately.
func (l *Limiter) Reset(key string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, key)
}
