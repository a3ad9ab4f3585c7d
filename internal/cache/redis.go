package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	log.Println("[Cache] redis client connected")
	return client, nil
}

// GeocodeCache stores reverse-geocode results as JSON with a fixed TTL.
type GeocodeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewGeocodeCache(client redis.Cmdable, ttl time.Duration) *GeocodeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &GeocodeCache{client: client, ttl: ttl}
}

func (c *GeocodeCache) Get(ctx context.Context, key string) ([]model.AddressResult, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var results []model.AddressResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return results, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, key string, results []model.AddressResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
