package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOTPStore is a Redis-backed OTPStore. Expiry is enforced by key TTL,
// so codes disappear on their own without a sweeper.
type RedisOTPStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisOTPStore creates a new Redis OTP store.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{
		client:    client,
		keyPrefix: "otp:",
	}
}

// Set stores a code for an email with the standard TTL.
func (s *RedisOTPStore) Set(ctx context.Context, email, code string) error {
	if err := s.client.Set(ctx, s.keyPrefix+email, code, OTPTTL).Err(); err != nil {
		return fmt.Errorf("storing otp: %w", err)
	}
	return nil
}

// Get returns the live code for an email.
func (s *RedisOTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, s.keyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrOTPNotFound
		}
		return "", fmt.Errorf("reading otp: %w", err)
	}
	return code, nil
}

// Delete removes the code for an email.
func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("deleting otp: %w", err)
	}
	return nil
}
