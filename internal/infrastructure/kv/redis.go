package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL   = 10 * time.Second
	lockRetry = 20 * time.Millisecond
)

// releaseLock deletes a lock key only while it still holds our token, so an
// expired lock taken over by another holder is left alone.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisStore keeps keys in Redis. Every write refreshes the key's TTL so
// abandoned visitors age out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore; ttl <= 0 means keys never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Del issues a single DEL, which Redis applies atomically across keys.
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// WithLock takes key+":lock" with SET NX, polling until it is free or ctx
// ends. The lock expires after lockTTL if the holder dies.
func (s *RedisStore) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lockKey := key + ":lock"
	token := uuid.NewString()

	for {
		ok, err := s.client.SetNX(ctx, lockKey, token, lockTTL).Result()
		if err != nil {
			return fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetry):
		}
	}
	defer releaseLock.Run(context.WithoutCancel(ctx), s.client, []string{lockKey}, token)

	return fn(ctx)
}
