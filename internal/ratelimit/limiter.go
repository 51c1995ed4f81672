// Package ratelimit spaces calls against a shared external budget, such as an
// LLM provider's requests-per-minute ceiling.
package ratelimit

import (
	"sync"
	"time"
)

// Clock abstracts time so the limiter is deterministic in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock uses the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// Limiter serializes callers onto a strictly spaced schedule: consecutive
// grants are at least window/maxRequests apart, with no burst allowance. This
// is deliberately more conservative than a token bucket, to stay safely under
// the provider's ceiling even when many workers contend at once.
type Limiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastGrant   time.Time
	clock       Clock
}

// New creates a limiter allowing maxRequests per window. A nil clock uses the
// system clock.
func New(maxRequests int, window time.Duration, clock Clock) *Limiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Limiter{
		minInterval: window / time.Duration(maxRequests),
		clock:       clock,
	}
}

// Acquire blocks until one more call may be issued, then records the grant.
// The sleep happens inside the critical section so concurrent callers queue
// behind each other rather than waking together. Acquire never fails; worst
// case the caller waits.
func (l *Limiter) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if !l.lastGrant.IsZero() {
		if wait := l.minInterval - now.Sub(l.lastGrant); wait > 0 {
			l.clock.Sleep(wait)
		}
	}
	l.lastGrant = l.clock.Now()
}

// MinInterval returns the enforced spacing between grants.
func (l *Limiter) MinInterval() time.Duration { return l.minInterval }
