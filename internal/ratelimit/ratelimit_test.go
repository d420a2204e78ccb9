package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitSpacesOutSameDomain(t *testing.T) {
	l := NewPerDomainLimiter(30*time.Millisecond, 30*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "shop.example.com"))

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "shop.example.com"))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitDomainsAreIndependent(t *testing.T) {
	l := NewPerDomainLimiter(200*time.Millisecond, 200*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "a.example.com"))

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "b.example.com"))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitRespectsContext(t *testing.T) {
	l := NewPerDomainLimiter(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "shop.example.com"))

	cancelled, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err := l.Wait(cancelled, "shop.example.com")
	assert.Error(t, err)
}

func TestBackoffWidensWindow(t *testing.T) {
	l := NewPerDomainLimiter(time.Second, 2*time.Second)

	for i := 0; i < 3; i++ {
		l.RecordError("shop.example.com")
	}

	l.mu.Lock()
	s := l.state("shop.example.com")
	l.mu.Unlock()
	assert.Equal(t, 1500*time.Millisecond, s.minDelay)
	assert.Equal(t, 3*time.Second, s.maxDelay)
}

func TestSuccessRecoversTowardBase(t *testing.T) {
	l := NewPerDomainLimiter(time.Second, 2*time.Second)

	for i := 0; i < 3; i++ {
		l.RecordError("shop.example.com")
	}
	for i := 0; i < 6; i++ {
		l.RecordSuccess("shop.example.com")
	}

	l.mu.Lock()
	s := l.state("shop.example.com")
	l.mu.Unlock()
	assert.Equal(t, 1350*time.Millisecond, s.minDelay)
	assert.GreaterOrEqual(t, s.minDelay, l.baseMin)
}
