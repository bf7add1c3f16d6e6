package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Header is the client-supplied idempotency key honored by checkout.
const Header = "Idempotency-Key"

// Store remembers checkout results per (buyer, key) so a retried request
// replays the original orders instead of creating duplicates. A lock taken
// for an attempt that fails must be Released, otherwise retries with the
// same key see a phantom in-progress checkout until the TTL expires.
type Store interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, "idemp:"+scope+":"+key, "1", s.ttl).Result()
}

func (s *RedisStore) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, "idemp:"+scope+":"+key).Err()
}

func (s *RedisStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, "idemp:map:"+scope+":"+key, value, s.ttl).Err()
}

func (s *RedisStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, "idemp:map:"+scope+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	return val, true, err
}

// Disabled is the fallback when no Redis address is configured: every lock
// succeeds and nothing is remembered, matching the at-least-once risk the
// storefront always had.
type Disabled struct{}

func (Disabled) TryLock(context.Context, string, string) (bool, error)  { return true, nil }
func (Disabled) Release(context.Context, string, string) error          { return nil }
func (Disabled) Remember(context.Context, string, string, string) error { return nil }
func (Disabled) Recall(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}
