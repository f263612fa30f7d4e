package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vse-rental/storefront/internal/models"
)

// RedisCartStore keeps each cart as a JSON array under <prefix>:<cartID>
type RedisCartStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCartStore creates a store on an existing client.
// A zero ttl keeps carts until they are deleted.
func NewRedisCartStore(client *redis.Client, prefix string, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// NewRedisClient parses redisURL and checks the server answers
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisCartStore) key(cartID string) string {
	return s.prefix + ":" + cartID
}

// Load returns the items stored for cartID
func (s *RedisCartStore) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	data, err := s.client.Get(ctx, s.key(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return decodeItems(data)
}

// Save replaces the items stored for cartID and refreshes its expiry
func (s *RedisCartStore) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	data, err := encodeItems(items)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(cartID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

// Delete removes cartID
func (s *RedisCartStore) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, s.key(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
