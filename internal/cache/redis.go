package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisTTL = 24 * time.Hour

// Redis is a shared cache tier over a Redis instance, selected when
// REDIS_URL is set. Values are JSON with a TTL; a decode failure is treated
// as a miss rather than an error.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("matrix cache: parse redis url: %w", err)
	}
	return &Redis{rdb: redis.NewClient(opt)}, nil
}

func (c *Redis) Get(ctx context.Context, key string) (*Matrices, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("matrix cache: redis get: %w", err)
	}
	var m Matrices
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil
	}
	return &m, nil
}

func (c *Redis) Put(ctx context.Context, key string, m *Matrices) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("matrix cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(key), data, redisTTL).Err(); err != nil {
		return fmt.Errorf("matrix cache: redis set: %w", err)
	}
	return nil
}

func (c *Redis) key(key string) string { return "routeopt:matrix:" + key }
