package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgcache "github.com/ghuser/stockkeeper/pkg/cache"
	"github.com/ghuser/stockkeeper/services/inventory/infrastructure/persistence/memory"
)

// versionedCache keeps the newest snapshot per item the way the Redis script
// does, and records every write.
type versionedCache struct {
	mu     sync.Mutex
	items  map[uuid.UUID]pkgcache.CachedStockItem
	writes int
}

func newVersionedCache() *versionedCache {
	return &versionedCache{items: make(map[uuid.UUID]pkgcache.CachedStockItem)}
}

func (c *versionedCache) Get(_ context.Context, id uuid.UUID) (*pkgcache.CachedStockItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if !ok {
		return nil, redis.Nil
	}
	return &it, nil
}

func (c *versionedCache) Set(_ context.Context, item *pkgcache.CachedStockItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if cur, ok := c.items[item.ID]; ok && pkgcache.Version(cur.UpdatedAt) > pkgcache.Version(item.UpdatedAt) {
		return nil
	}
	c.items[item.ID] = *item
	return nil
}

func (c *versionedCache) snapshot(id uuid.UUID) (pkgcache.CachedStockItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	return it, ok
}

func newCachedFixture(t *testing.T, clock func() time.Time) (*fixture, *versionedCache) {
	t.Helper()
	store := memory.New()
	cache := newVersionedCache()
	svc := NewInventoryService(store, time.Second, testLogger(),
		WithCache(cache),
		WithSyncCacheRefresh(),
		WithClock(clock),
	)
	return &fixture{store: store, pub: &fakePublisher{}, svc: svc}, cache
}

func TestCommitStamp(t *testing.T) {
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		prior []time.Time
		want  time.Time
	}{
		{"no prior", base.Add(1500 * time.Nanosecond), nil, base.Add(time.Microsecond)},
		{"clock ahead", base, []time.Time{base.Add(-time.Hour)}, base},
		{"clock behind", base.Add(-time.Hour), []time.Time{base}, base.Add(time.Microsecond)},
		{"same microsecond", base.Add(200 * time.Nanosecond), []time.Time{base.Add(700 * time.Nanosecond)}, base.Add(time.Microsecond)},
		{"latest prior wins", base, []time.Time{base.Add(time.Second), base.Add(time.Minute)}, base.Add(time.Minute + time.Microsecond)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commitStamp(tt.now, tt.prior...)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			for _, p := range tt.prior {
				assert.True(t, got.After(p))
			}
		})
	}
}

func TestAdjustStock_UpdatedAtAdvancesWhenClockStepsBack(t *testing.T) {
	clock := testNow
	f, cache := newCachedFixture(t, func() time.Time { return clock })
	item := f.item("Vanilla", "100", "10", "3")

	first, err := f.svc.AdjustStock(context.Background(), AdjustStockInput{ItemID: item.ID, Delta: dec("-10"), Reason: "a"})
	require.NoError(t, err)

	clock = testNow.Add(-time.Hour)
	second, err := f.svc.AdjustStock(context.Background(), AdjustStockInput{ItemID: item.ID, Delta: dec("-10"), Reason: "b"})
	require.NoError(t, err)

	assert.True(t, second.Item.UpdatedAt.After(first.Item.UpdatedAt))

	// Replaying the first snapshot after the second must not roll the level back.
	require.NoError(t, cache.Set(context.Background(), toCached(*first.Item)))
	cached, ok := cache.snapshot(item.ID)
	require.True(t, ok)
	assert.True(t, cached.Quantity.Equal(dec("80")), "cached quantity %s", cached.Quantity)
}

func TestCreateProductionBatch_StampsAfterEveryIngredient(t *testing.T) {
	f, cache := newCachedFixture(t, func() time.Time { return testNow.Add(-24 * time.Hour) })
	cocoa := f.item("Cocoa Butter", "100", "10", "7")
	sugar := f.item("Sugar", "100", "10", "1")
	recipe := f.recipe(cocoa, "2", sugar, "1")

	res, err := f.svc.CreateProductionBatch(context.Background(), CreateBatchInput{RecipeID: recipe.ID, Quantity: dec("3")})
	require.NoError(t, err)

	assert.True(t, res.Batch.CreatedAt.After(cocoa.UpdatedAt))
	for _, id := range []uuid.UUID{cocoa.ID, sugar.ID} {
		cached, ok := cache.snapshot(id)
		require.True(t, ok, "no cache write for %s", id)
		assert.True(t, cached.UpdatedAt.After(testNow.Add(-time.Hour)))
	}
}

func TestSyncCacheRefresh_WritesBeforeReturning(t *testing.T) {
	f, cache := newCachedFixture(t, func() time.Time { return testNow })
	item := f.item("Flour", "50", "20", "1")

	_, err := f.svc.AdjustStock(context.Background(), AdjustStockInput{ItemID: item.ID, Delta: dec("-40"), Reason: "spoilage"})
	require.NoError(t, err)

	cached, ok := cache.snapshot(item.ID)
	require.True(t, ok, "refresh did not complete before AdjustStock returned")
	assert.True(t, cached.Quantity.Equal(dec("10")))
	assert.True(t, cached.BelowMinimum())

	other := f.item("Salt", "5", "1", "1")
	_, err = f.svc.GetStockItem(context.Background(), other.ID)
	require.NoError(t, err)
	_, ok = cache.snapshot(other.ID)
	assert.True(t, ok, "read-through miss should warm the cache before returning")

	got, err := f.svc.GetStockItem(context.Background(), other.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(dec("5")))
	assert.Equal(t, 2, cache.writes)
}
