package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/dtos"
)

const poolStatsKey = "request_pool:stats"

// StatsCache is a small read-through cache for pool statistics. A nil
// redis client disables it, so callers never branch on availability.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// GetPoolStats returns the cached snapshot, or nil on a miss. A broken
// cache entry is treated as a miss.
func (c *StatsCache) GetPoolStats(ctx context.Context) (*dtos.PoolStatsDTO, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, poolStatsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats dtos.PoolStatsDTO
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, nil
	}
	return &stats, nil
}

func (c *StatsCache) SetPoolStats(ctx context.Context, stats *dtos.PoolStatsDTO) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, poolStatsKey, raw, c.ttl).Err()
}
