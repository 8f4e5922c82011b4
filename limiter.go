package portal

import (
	"sync"
	"time"
)

// Limiter caps attempts per key (client IP) within a sliding window. It
// guards admin login and public incident submission.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewLimiter creates a Limiter that allows max attempts per window.
func NewLimiter(max int, window time.Duration) *Limiter {
	l := &Limiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for key, hits := range l.attempts {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(l.attempts, key)
			} else {
				l.attempts[key] = kept
			}
		}
		l.mu.Unlock()
	}
}

// Close stops the background cleanup.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow checks the limit and records the attempt when allowed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := prune(l.attempts[key], time.Now().Add(-l.window))
	if len(kept) >= l.max {
		l.attempts[key] = kept
		return false
	}
	l.attempts[key] = append(kept, time.Now())
	return true
}

// Reserve records an attempt for key when the limit allows it, in the same
// step as the check. The returned release takes that attempt back for
// requests that end up not counting; calling it more than once is a no-op.
func (l *Limiter) Reserve(key string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	kept := prune(l.attempts[key], now.Add(-l.window))
	if len(kept) >= l.max {
		l.attempts[key] = kept
		return func() {}, false
	}
	l.attempts[key] = append(kept, now)
	var once sync.Once
	return func() { once.Do(func() { l.unrecord(key, now) }) }, true
}

func (l *Limiter) unrecord(key string, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	hits := l.attempts[key]
	for i, t := range hits {
		if t.Equal(at) {
			hits = append(hits[:i:i], hits[i+1:]...)
			break
		}
	}
	if len(hits) == 0 {
		delete(l.attempts, key)
		return
	}
	l.attempts[key] = hits
}

// Reset forgets every attempt for key, e.g. after a successful login.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.attempts, key)
	l.mu.Unlock()
}
