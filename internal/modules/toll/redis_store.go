package toll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "toll:cache:%s:%s"

// RedisStore keeps one JSON document per key and lets Redis expire it at
// ExpiresAt, so DeleteExpired has nothing left to do.
type RedisStore struct {
	redis *redis.Client
	now   func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client, now: time.Now}
}

func redisKey(k Key) string {
	return fmt.Sprintf(redisKeyPrefix, k.OriginHash, k.DestinationHash)
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*Entry, error) {
	val, err := s.redis.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get toll cache: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, fmt.Errorf("decode toll cache entry: %w", err)
	}
	return &e, nil
}

func (s *RedisStore) Upsert(ctx context.Context, e Entry) error {
	ttl := e.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.redis.Del(ctx, redisKey(e.Key())).Err()
	}
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode toll cache entry: %w", err)
	}
	if err := s.redis.Set(ctx, redisKey(e.Key()), val, ttl).Err(); err != nil {
		return fmt.Errorf("upsert toll cache: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
