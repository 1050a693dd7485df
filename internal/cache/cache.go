// Package cache provides the Redis cache layer. Only derived, re-fetchable
// data is cached here; principals and credentials never are.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	contractStateKeyPrefix = "contract-state:"

	// ContractStateTTL bounds how stale a cached contract state may be.
	ContractStateTTL = 2 * time.Minute
)

var ErrCacheMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
}

// New connects and pings Redis. Callers treat a nil *Cache as "no caching".
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Close() error { return c.client.Close() }

// GetContractState returns the cached raw state for an address.
func (c *Cache) GetContractState(ctx context.Context, address string) ([]byte, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}
	val, err := c.client.Get(ctx, contractStateKeyPrefix+address).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// SetContractState stores a node response with the standard TTL.
func (c *Cache) SetContractState(ctx context.Context, address string, raw []byte) error {
	if c == nil {
		return nil
	}
	if err := c.client.Set(ctx, contractStateKeyPrefix+address, raw, ContractStateTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
