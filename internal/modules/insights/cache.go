// README: Redis-backed cache for filtered time patterns shared across API replicas.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores derived time patterns by key.
type Cache interface {
	GetTimePatterns(ctx context.Context, key string) (TimePatterns, bool, error)
	SetTimePatterns(ctx context.Context, key string, tp TimePatterns) error
}

const cachePrefix = "rideinsight:"

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) GetTimePatterns(ctx context.Context, key string) (TimePatterns, bool, error) {
	raw, err := c.rdb.Get(ctx, cachePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return TimePatterns{}, false, nil
	}
	if err != nil {
		return TimePatterns{}, false, err
	}
	var tp TimePatterns
	if err := json.Unmarshal(raw, &tp); err != nil {
		return TimePatterns{}, false, err
	}
	return tp, true, nil
}

func (c *RedisCache) SetTimePatterns(ctx context.Context, key string, tp TimePatterns) error {
	raw, err := json.Marshal(tp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cachePrefix+key, raw, c.ttl).Err()
}
