// Package ratelimit throttles AI provider calls with per-provider sliding
// windows over the last minute and hour.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter tracks request timestamps per provider and refuses calls that
// would exceed the configured minute or hour budget.
type Limiter struct {
	mu        sync.Mutex
	perMinute int
	perHour   int
	requests  map[string][]time.Time
	now       func() time.Time
}

// Status summarizes current usage for one provider.
type Status struct {
	Provider    string
	UsedMinute  int
	LimitMinute int
	UsedHour    int
	LimitHour   int
}

// New returns a limiter allowing perMinute requests per minute and perHour
// per hour for each provider independently.
func New(perMinute, perHour int) *Limiter {
	return &Limiter{
		perMinute: perMinute,
		perHour:   perHour,
		requests:  make(map[string][]time.Time),
		now:       time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow reports whether a request for provider may proceed now. When it is
// denied, the hint says which window is exhausted and when it frees up.
func (l *Limiter) Allow(provider string) (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(provider, now)

	var inMinute int
	minuteCutoff := now.Add(-time.Minute)
	for _, t := range recent {
		if t.After(minuteCutoff) {
			inMinute++
		}
	}

	if l.perHour > 0 && len(recent) >= l.perHour {
		wait := recent[0].Add(time.Hour).Sub(now)
		return false, fmt.Sprintf("hourly limit of %d reached, retry in %s", l.perHour, wait.Round(time.Second))
	}
	if l.perMinute > 0 && inMinute >= l.perMinute {
		oldest := recent[len(recent)-inMinute]
		wait := oldest.Add(time.Minute).Sub(now)
		return false, fmt.Sprintf("per-minute limit of %d reached, retry in %s", l.perMinute, wait.Round(time.Second))
	}

	l.requests[provider] = append(recent, now)
	return true, ""
}

// Usage returns current window usage for the provider.
func (l *Limiter) Usage(provider string) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(provider, now)

	var inMinute int
	minuteCutoff := now.Add(-time.Minute)
	for _, t := range recent {
		if t.After(minuteCutoff) {
			inMinute++
		}
	}
	return Status{
		Provider:    provider,
		UsedMinute:  inMinute,
		LimitMinute: l.perMinute,
		UsedHour:    len(recent),
		LimitHour:   l.perHour,
	}
}

// prune drops timestamps older than an hour. Caller holds the lock.
func (l *Limiter) prune(provider string, now time.Time) []time.Time {
	cutoff := now.Add(-time.Hour)
	old := l.requests[provider]
	recent := old[:0]
	for _, t := range old {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	l.requests[provider] = recent
	return recent
}
