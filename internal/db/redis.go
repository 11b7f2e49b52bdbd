package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ev-portal:"

// ConnectRedis parses a redis:// URL and verifies the connection.
func ConnectRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL error: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.Ping error: %w", err)
	}
	return client, nil
}

// RedisStore is a KeyValue whose entries expire after ttl. It backs
// session-scoped state such as the pending-booking snapshot.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store; ttl <= 0 keeps entries until deleted.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get decodes the value under key into out.
func (s *RedisStore) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	if s.client == nil {
		return false, ErrNilStore
	}
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the store's ttl.
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	if s.client == nil {
		return ErrNilStore
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, redisKeyPrefix+key, raw, ttl).Err()
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return ErrNilStore
	}
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
