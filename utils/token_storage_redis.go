package utils

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTokenPrefix = "gossip:token:"

// RedisTokenStorage keeps tokens in Redis with a TTL, shared across instances.
type RedisTokenStorage struct {
	rc *redis.Client
}

func NewRedisTokenStorage(rc *redis.Client) *RedisTokenStorage {
	return &RedisTokenStorage{rc: rc}
}

func (s *RedisTokenStorage) Load(ctx context.Context, sid string) (string, bool, error) {
	token, err := s.rc.Get(ctx, redisTokenPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *RedisTokenStorage) Save(ctx context.Context, sid, token string, ttl time.Duration) error {
	return s.rc.Set(ctx, redisTokenPrefix+sid, token, ttl).Err()
}

func (s *RedisTokenStorage) Delete(ctx context.Context, sid string) error {
	return s.rc.Del(ctx, redisTokenPrefix+sid).Err()
}
