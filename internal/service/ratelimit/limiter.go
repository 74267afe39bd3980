package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key (client IP for the refresh
// endpoint). Buckets start full; a bucket that has refilled is
// indistinguishable from a new one and is dropped on the next sweep.
type Limiter struct {
	mu        sync.Mutex
	m         map[string]*rate.Limiter
	capacity  int
	every     time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// New allows bursts of capacity per key, refilling one token every refill.
func New(capacity int, refill time.Duration) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		m:        make(map[string]*rate.Limiter),
		capacity: capacity,
		every:    refill,
		now:      time.Now,
	}
}

func (l *Limiter) bucket(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= l.every {
		l.sweepLocked(now)
	}
	b, ok := l.m[key]
	if !ok {
		b = rate.NewLimiter(rate.Every(l.every), l.capacity)
		l.m[key] = b
	}
	return b
}

// sweepLocked drops full buckets. Runs at most once per refill period.
func (l *Limiter) sweepLocked(now time.Time) {
	full := float64(l.capacity)
	for k, b := range l.m {
		if b.TokensAt(now) >= full {
			delete(l.m, k)
		}
	}
	l.lastSweep = now
}

// Len reports how many keys currently hold a bucket.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// Allow consumes one token for key. When the bucket is empty it returns
// false and how long until the next token.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	r := l.bucket(key, now).ReserveN(now, 1)
	if !r.OK() {
		return false, l.every
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}
