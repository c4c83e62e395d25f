package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps every failure reaching the cache backend. Callers that
// must distinguish a broken cache from a broken database check for it with
// errors.Is.
var ErrUnavailable = errors.New("cache unavailable")

// Store is a JSON-over-key-value cache with per-key TTLs. A miss is not an
// error: GetJSON reports it through its bool result.
type Store interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedis connects a redis-backed Store and verifies connectivity with a ping.
func NewRedis(ctx context.Context, addr, password string, db int) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrUnavailable, addr, err)
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A value we cannot decode is as good as absent; drop it so the next
		// write replaces it.
		_ = s.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (s *redisStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: del %v: %v", ErrUnavailable, keys, err)
	}
	return nil
}
