// Package cartstore persists session carts. Carts are ephemeral: JSON blobs
// in redis under the user's id, expiring after the configured TTL, deleted
// outright when an order is created.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/galwaybites/storefront/internal/cart"
)

type Store interface {
	Get(ctx context.Context, userID string) (cart.Cart, error)
	Save(ctx context.Context, userID string, c cart.Cart) error
	Delete(ctx context.Context, userID string) error
}

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func cartKey(userID string) string { return "cart:" + userID }

// Get returns the user's cart; an absent key is an empty cart, not an error.
func (r *Redis) Get(ctx context.Context, userID string) (cart.Cart, error) {
	val, err := r.rdb.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return cart.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return cart.Cart{}, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return c, nil
}

func (r *Redis) Save(ctx context.Context, userID string, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return r.rdb.Set(ctx, cartKey(userID), data, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, cartKey(userID)).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
