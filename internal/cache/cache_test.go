package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/selector-discovery/internal/analyzer"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ResultCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(client, ttl, nil)
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func sampleReport() *analyzer.Report {
	return &analyzer.Report{
		Results: []analyzer.PatternResult{
			{
				Type:        analyzer.RoleContainer,
				Value:       `[class*="product-card"]`,
				Confidence:  0.95,
				Description: "Found 3 elements",
				Examples:    []string{"product-card"},
			},
		},
		Roles: map[analyzer.Role]analyzer.RoleStatus{
			analyzer.RoleContainer: analyzer.StatusMatched,
			analyzer.RoleTitle:     analyzer.StatusNoConfidentMatch,
			analyzer.RolePrice:     analyzer.StatusNoConfidentMatch,
			analyzer.RoleImage:     analyzer.StatusNoConfidentMatch,
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "shop.example.com", sampleReport()))

	got, err := c.Get(ctx, "shop.example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleReport(), got)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	got, err := c.Get(context.Background(), "unknown.example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "shop.example.com", sampleReport()))

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "shop.example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheCorruptEntryTreatedAsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)

	require.NoError(t, mr.Set(keyPrefix+"shop.example.com", "{not json"))

	got, err := c.Get(context.Background(), "shop.example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	// The bad entry is gone afterwards.
	assert.False(t, mr.Exists(keyPrefix+"shop.example.com"))
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "shop.example.com", sampleReport()))
	require.NoError(t, c.Invalidate(ctx, "shop.example.com"))

	got, err := c.Get(ctx, "shop.example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}
