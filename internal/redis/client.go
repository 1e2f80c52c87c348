package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Order aggregate cache

func (c *Client) SetOrderAggregate(orderID uint, view interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal order aggregate: %w", err)
	}

	return c.rdb.Set(ctx, orderKey(orderID), jsonData, ttl).Err()
}

func (c *Client) GetOrderAggregate(orderID uint, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, orderKey(orderID)).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("order aggregate not cached")
		}
		return fmt.Errorf("failed to get order aggregate: %w", err)
	}

	return json.Unmarshal([]byte(val), dest)
}

// InvalidateOrder drops the cached aggregate after any mutation.
func (c *Client) InvalidateOrder(orderID uint) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, orderKey(orderID)).Err()
}

func orderKey(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

// Catalog price cache

func (c *Client) SetCatalogEntry(kind string, id uint, entry interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog entry: %w", err)
	}

	return c.rdb.Set(ctx, catalogKey(kind, id), jsonData, ttl).Err()
}

func (c *Client) GetCatalogEntry(kind string, id uint, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, catalogKey(kind, id)).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("catalog entry not cached")
		}
		return fmt.Errorf("failed to get catalog entry: %w", err)
	}

	return json.Unmarshal([]byte(val), dest)
}

func catalogKey(kind string, id uint) string {
	return fmt.Sprintf("catalog:%s:%d", kind, id)
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
