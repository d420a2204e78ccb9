package database

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSiteRepository(db)

	t.Run("insert then upsert keeps id stable", func(t *testing.T) {
		first, err := repo.Upsert(ctx, "https://shop.example.com/products", "shop.example.com")
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := repo.Upsert(ctx, "https://shop.example.com/products", "shop.example.com")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
	})

	t.Run("list returns upserted sites", func(t *testing.T) {
		_, err := repo.Upsert(ctx, "https://other.example.com/catalog", "other.example.com")
		require.NoError(t, err)

		sites, err := repo.List(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(sites), 2)
	})
}

func TestSelectorRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	sites := NewSiteRepository(db)
	repo := NewSelectorRepository(db)

	site, err := sites.Upsert(ctx, "https://shop.example.com/products", "shop.example.com")
	require.NoError(t, err)

	t.Run("insert new selector", func(t *testing.T) {
		rec := &SelectorRecord{
			SiteID:        site.ID,
			SelectorType:  "container",
			SelectorValue: `[class*="product-card"]`,
			Confidence:    0.95,
			Description:   "Product card containers",
			Examples:      json.RawMessage(`["product-card"]`),
		}
		require.NoError(t, repo.Upsert(ctx, rec))
		assert.NotZero(t, rec.ID)
	})

	t.Run("same value does not create history", func(t *testing.T) {
		rec := &SelectorRecord{
			SiteID:        site.ID,
			SelectorType:  "container",
			SelectorValue: `[class*="product-card"]`,
			Confidence:    0.97,
		}
		require.NoError(t, repo.Upsert(ctx, rec))

		history, err := repo.GetHistory(ctx, rec.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("changed value records history", func(t *testing.T) {
		rec := &SelectorRecord{
			SiteID:        site.ID,
			SelectorType:  "container",
			SelectorValue: `[class*="product-item"]`,
			Confidence:    0.9,
		}
		require.NoError(t, repo.Upsert(ctx, rec))

		history, err := repo.GetHistory(ctx, rec.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, `[class*="product-card"]`, history[0].SelectorValue)
	})

	t.Run("get by site returns one row per role", func(t *testing.T) {
		price := &SelectorRecord{
			SiteID:        site.ID,
			SelectorType:  "price",
			SelectorValue: "span.price",
			Confidence:    0.85,
		}
		require.NoError(t, repo.Upsert(ctx, price))

		records, err := repo.GetBySite(ctx, site.ID)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("rejects record without site id", func(t *testing.T) {
		err := repo.Upsert(ctx, &SelectorRecord{
			SelectorType:  "price",
			SelectorValue: "span.price",
		})
		assert.Error(t, err)
	})
}

// setupTestDB creates a test database connection
// In a real implementation, this would use a test container or test database
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	// This is a placeholder - implement based on your test setup
	// For now, we'll skip if no test DB is available
	t.Skip("Test database not configured")
	return nil
}
