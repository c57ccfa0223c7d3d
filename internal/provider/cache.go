package provider

import (
	"context"
	"encoding/json"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"

	"routeplan/internal/geo"
)

// Cached decorates a TravelCostProvider with a Redis lookup cache. Cache
// failures degrade to the wrapped provider and never fail a lookup.
type Cached struct {
	next TravelCostProvider
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCached wraps next with a Redis cache. A zero ttl keeps entries for a day.
func NewCached(next TravelCostProvider, rdb *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl}
}

func (c *Cached) Lookup(ctx context.Context, origin, dest geo.Point) (Cost, error) {
	key := "tc:" + pairKey(origin, dest)
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cost Cost
		if err := json.Unmarshal(data, &cost); err == nil {
			return cost, nil
		}
	}
	cost, err := c.next.Lookup(ctx, origin, dest)
	if err != nil {
		return Cost{}, err
	}
	if data, err := json.Marshal(cost); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("provider cache: set %s failed: %v", key, err)
		}
	}
	return cost, nil
}
