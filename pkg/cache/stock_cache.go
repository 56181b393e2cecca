package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// StockCacheTTL is the time-to-live for cached stock levels.
	StockCacheTTL = 24 * time.Hour

	stockCacheKeyPrefix = "stock"
	lowStockSetKey      = "stock:low"
)

// CachedStockItem is the denormalized stock-level read model stored in Redis.
// It may trail the ledger; writers never read it.
type CachedStockItem struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	Quantity         decimal.Decimal `json:"quantity"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold"`
	OptimalThreshold decimal.Decimal `json:"optimal_threshold"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BelowMinimum reports whether the cached quantity is under the minimum threshold.
func (c *CachedStockItem) BelowMinimum() bool {
	return c.Quantity.LessThan(c.MinimumThreshold)
}

// StockCache reads and writes stock-level hashes and the low-stock set.
// Key format: "stock:{itemID}"
type StockCache struct {
	client *RedisClient
}

// NewStockCache creates a new StockCache backed by the given RedisClient.
func NewStockCache(r *RedisClient) *StockCache {
	return &StockCache{client: r}
}

// Get retrieves a cached stock level.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *StockCache) Get(ctx context.Context, itemID uuid.UUID) (*CachedStockItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	out := &CachedStockItem{ID: id, Name: vals["name"], Unit: vals["unit"]}
	for field, dst := range map[string]*decimal.Decimal{
		"quantity":          &out.Quantity,
		"minimum_threshold": &out.MinimumThreshold,
		"optimal_threshold": &out.OptimalThreshold,
	} {
		if *dst, err = decimal.NewFromString(vals[field]); err != nil {
			return nil, fmt.Errorf("cache parse %s: %w", field, err)
		}
	}
	if out.UpdatedAt, err = time.Parse(time.RFC3339Nano, vals["updated_at"]); err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}
	return out, nil
}

// setIfNewer writes the hash, refreshes its TTL and moves the item in or out
// of the low-stock set in one step, unless the stored version is newer.
//
// KEYS[1] item hash, KEYS[2] low-stock set
// ARGV[1] version, ARGV[2] ttl ms, ARGV[3] "1" when low, ARGV[4] item id,
// ARGV[5..] field/value pairs
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], unpack(ARGV, 5))
redis.call('PEXPIRE', KEYS[1], ARGV[2])
if ARGV[3] == '1' then
  redis.call('SADD', KEYS[2], ARGV[4])
else
  redis.call('SREM', KEYS[2], ARGV[4])
end
return 1
`)

// Set writes a stock level and keeps the low-stock set in step with it.
// Snapshots are ordered by UpdatedAt at microsecond precision, the ledger's
// commit stamp. An older snapshot never overwrites a newer one, even when two
// writers race, since the compare and the write run as one script.
func (c *StockCache) Set(ctx context.Context, item *CachedStockItem) error {
	_, err := c.SetIfNewer(ctx, item)
	return err
}

// SetIfNewer is Set that also reports whether the snapshot was applied.
func (c *StockCache) SetIfNewer(ctx context.Context, item *CachedStockItem) (bool, error) {
	low := "0"
	if item.BelowMinimum() {
		low = "1"
	}
	applied, err := setIfNewer.Run(ctx, c.client.Client(),
		[]string{c.key(item.ID), lowStockSetKey},
		Version(item.UpdatedAt),
		StockCacheTTL.Milliseconds(),
		low,
		item.ID.String(),
		"id", item.ID.String(),
		"name", item.Name,
		"unit", item.Unit,
		"quantity", item.Quantity.String(),
		"minimum_threshold", item.MinimumThreshold.String(),
		"optimal_threshold", item.OptimalThreshold.String(),
		"updated_at", item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return applied == 1, nil
}

// Version is the ordering key stored with each snapshot.
func Version(updatedAt time.Time) int64 {
	return updatedAt.UnixMicro()
}

// Delete removes a cached stock level and its low-stock membership.
func (c *StockCache) Delete(ctx context.Context, itemID uuid.UUID) error {
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, c.key(itemID))
	pipe.SRem(ctx, lowStockSetKey, itemID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// MarkLow adds an item to the low-stock set.
func (c *StockCache) MarkLow(ctx context.Context, itemID uuid.UUID) error {
	if err := c.client.Client().SAdd(ctx, lowStockSetKey, itemID.String()).Err(); err != nil {
		return fmt.Errorf("cache mark low: %w", err)
	}
	return nil
}

// LowStock returns the ids of items last seen below their minimum threshold.
func (c *StockCache) LowStock(ctx context.Context) ([]uuid.UUID, error) {
	members, err := c.client.Client().SMembers(ctx, lowStockSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("cache low stock: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// key builds the Redis key: "stock:{itemID}"
func (c *StockCache) key(itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", stockCacheKeyPrefix, itemID)
}
