package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andrescamacho/mediator-go/internal/domain/order"
)

const (
	defaultKeyPrefix = "mediator:"
	defaultOrderTTL  = 5 * time.Minute
)

// OrderCache implements order.Cache on top of Redis
type OrderCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewOrderCache creates an order cache storing JSON-encoded orders under
// "<prefix>order:<id>"
func NewOrderCache(client redis.Cmdable, prefix string, ttl time.Duration) *OrderCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultOrderTTL
	}
	return &OrderCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *OrderCache) Get(ctx context.Context, id int) (*order.Order, bool, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get order from cache: %w", err)
	}

	var o order.Order
	if err := json.Unmarshal(data, &o); err != nil {
		// a corrupt entry is treated as a miss and overwritten on the next Set
		return nil, false, nil
	}
	return &o, true, nil
}

func (c *OrderCache) Set(ctx context.Context, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	if err := c.client.Set(ctx, c.key(o.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set order in cache: %w", err)
	}
	return nil
}

func (c *OrderCache) Delete(ctx context.Context, id int) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete order from cache: %w", err)
	}
	return nil
}

func (c *OrderCache) key(id int) string {
	return c.prefix + "order:" + strconv.Itoa(id)
}
