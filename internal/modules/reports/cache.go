// README: Redis-backed report cache with TTL.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"commutebill/internal/types"
)

// Cache keeps rendered reports hot for the dashboard's repeated reads.
// Misses and Redis failures both read as "not cached": the builder is the
// source of truth and the cache is never load-bearing.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func ClientKey(clientID types.ID, month string) string {
	return fmt.Sprintf("report:client:%s:%s", clientID, month)
}

func VendorKey(vendorID types.ID, month string) string {
	return fmt.Sprintf("report:vendor:%s:%s", vendorID, month)
}

func EmployeeKey(employeeID types.ID, month string) string {
	return fmt.Sprintf("report:employee:%s:%s", employeeID, month)
}

func ConsolidatedKey(month string) string {
	return fmt.Sprintf("report:consolidated:%s", month)
}

// Get unmarshals a cached report into v, reporting whether it was present.
func (c *Cache) Get(ctx context.Context, key string, v any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Set stores a report under key for the configured TTL. Errors are
// returned for logging but safe for callers to ignore.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
