package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const ticketKeyPrefix = "ambitions:ticket:"

// TicketCache keeps rendered ticket PNGs in Redis.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to url and verifies the connection.
// Returns nil if the URL is empty (cache not configured).
func New(ctx context.Context, url string, ttl time.Duration) (*TicketCache, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewFromClient(client, ttl), nil
}

func NewFromClient(client *redis.Client, ttl time.Duration) *TicketCache {
	return &TicketCache{client: client, ttl: ttl}
}

func key(id int64) string {
	return ticketKeyPrefix + strconv.FormatInt(id, 10)
}

func (c *TicketCache) Get(ctx context.Context, id int64) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores png with the configured TTL; zero keeps it forever.
func (c *TicketCache) Set(ctx context.Context, id int64, png []byte) error {
	return c.client.Set(ctx, key(id), png, c.ttl).Err()
}

func (c *TicketCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *TicketCache) Close() error {
	return c.client.Close()
}
