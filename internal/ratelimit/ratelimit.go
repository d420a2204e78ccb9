package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type RateLimiter interface {
	Wait(ctx context.Context, domain string) error
	RecordSuccess(domain string)
	RecordError(domain string)
}

// PerDomainLimiter spaces out fetches against the same domain. Each domain
// gets its own delay window with jitter; repeated errors widen the window,
// a run of successes narrows it back toward the configured minimum.
type PerDomainLimiter struct {
	baseMin time.Duration
	baseMax time.Duration

	mu      sync.Mutex
	domains map[string]*domainState
}

type domainState struct {
	minDelay     time.Duration
	maxDelay     time.Duration
	lastFetch    time.Time
	errorCount   int
	successCount int
}

func NewPerDomainLimiter(minDelay, maxDelay time.Duration) *PerDomainLimiter {
	if minDelay <= 0 {
		minDelay = 1 * time.Second
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &PerDomainLimiter{
		baseMin: minDelay,
		baseMax: maxDelay,
		domains: make(map[string]*domainState),
	}
}

func (l *PerDomainLimiter) state(domain string) *domainState {
	s, ok := l.domains[domain]
	if !ok {
		s = &domainState{minDelay: l.baseMin, maxDelay: l.baseMax}
		l.domains[domain] = s
	}
	return s
}

func (l *PerDomainLimiter) Wait(ctx context.Context, domain string) error {
	l.mu.Lock()
	s := l.state(domain)
	delay := calculateDelay(s.minDelay, s.maxDelay)
	elapsed := time.Since(s.lastFetch)
	l.mu.Unlock()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	l.mu.Lock()
	s.lastFetch = time.Now()
	l.mu.Unlock()
	return nil
}

func (l *PerDomainLimiter) RecordSuccess(domain string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.state(domain)
	s.successCount++
	s.errorCount = 0

	if s.successCount > 5 {
		newMin := time.Duration(float64(s.minDelay) * 0.9)
		if newMin < l.baseMin {
			newMin = l.baseMin
		}
		s.minDelay = newMin
		s.successCount = 0
	}
}

func (l *PerDomainLimiter) RecordError(domain string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.state(domain)
	s.errorCount++
	s.successCount = 0

	if s.errorCount >= 3 {
		newMin := time.Duration(float64(s.minDelay) * 1.5)
		newMax := time.Duration(float64(s.maxDelay) * 1.5)

		if newMin > 60*time.Second {
			newMin = 60 * time.Second
		}
		if newMax > 120*time.Second {
			newMax = 120 * time.Second
		}

		s.minDelay = newMin
		s.maxDelay = newMax
		s.errorCount = 0
	}
}

func calculateDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
