package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp"

// RedisStore keeps challenges in Redis with a TTL matching the code window.
// Useful when several CLI invocations share one in-progress flow.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(purpose Purpose, email string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, purpose, email)
}

// Put stores the challenge under its flow key, replacing any prior one.
func (s *RedisStore) Put(ctx context.Context, ch Challenge, ttl time.Duration) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode challenge: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(ch.Purpose, ch.Email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set challenge: %w", err)
	}
	return nil
}

// Get fetches the live challenge for the flow.
func (s *RedisStore) Get(ctx context.Context, purpose Purpose, email string) (Challenge, error) {
	raw, err := s.client.Get(ctx, redisKey(purpose, email)).Bytes()
	if err == redis.Nil {
		return Challenge{}, ErrNoChallenge
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("redis get challenge: %w", err)
	}

	var ch Challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return Challenge{}, fmt.Errorf("failed to decode challenge: %w", err)
	}
	return ch, nil
}

// Delete removes the live challenge for the flow.
func (s *RedisStore) Delete(ctx context.Context, purpose Purpose, email string) error {
	if err := s.client.Del(ctx, redisKey(purpose, email)).Err(); err != nil {
		return fmt.Errorf("redis delete challenge: %w", err)
	}
	return nil
}
