package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options holds Redis connection parameters.
type Options struct {
	Address  string
	Password string
	DB       int
}

// DefaultOptions returns options for a local unsecured Redis.
func DefaultOptions() Options {
	return Options{
		Address:  "localhost:6379",
		Password: "",
		DB:       0,
	}
}

type redisCache struct {
	client *redis.Client
}

// NewRedis opens a Redis-backed cache.
func NewRedis(opts Options) Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &redisCache{client: client}
}

// Ping tests connectivity so callers can log cache availability at startup.
func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string) (bool, string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, value, nil
}

func (c *redisCache) SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying connection pool.
func (c *redisCache) Close() error {
	return c.client.Close()
}
