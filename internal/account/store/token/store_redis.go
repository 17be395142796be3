package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"signup/pkg/platform/sentinel"
)

const activationKeyPrefix = "activation:token:"

// RedisStore keeps activation tokens in Redis, relying on key expiry for the
// time bound.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed token store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save records token with SET EX so the expiry is atomic with the write.
func (s *RedisStore) Save(ctx context.Context, token string, accountID uuid.UUID, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	if err := s.client.Set(ctx, activationKeyPrefix+token, accountID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("save activation token: %w", err)
	}
	return nil
}

// Lookup returns the account for a live token.
func (s *RedisStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, activationKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, sentinel.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup activation token: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup activation token: corrupt value: %w", err)
	}
	return id, nil
}
