package handler

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"hostel-system/internal/faults"
)

const otpKeyPrefix = "otp:admin:"

// RedisOTPStore keeps reset codes in redis so they expire on their own
// and are visible to every server instance.
type RedisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func (s *RedisOTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKeyPrefix+email, code, ttl).Err()
}

func (s *RedisOTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKeyPrefix+email).Result()
	if err == redis.Nil {
		return "", faults.NotFound("otp", email)
	}
	return code, err
}

func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKeyPrefix+email).Err()
}
