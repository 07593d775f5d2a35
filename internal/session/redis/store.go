package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// sessionKey is the single key holding this installation's cart session id.
// No TTL: the session survives until externally cleared.
const sessionKey = "storefront:cart_id"

// Store implements session.Store using Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis-backed session store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get retrieves the session id from Redis.
func (s *Store) Get(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", apperrors.NotFound("cart session", sessionKey)
		}
		return "", fmt.Errorf("redis get session id: %w", err)
	}
	return id, nil
}

// Set persists the session id to Redis without expiry.
func (s *Store) Set(ctx context.Context, id string) error {
	if err := s.client.Set(ctx, sessionKey, id, 0).Err(); err != nil {
		return fmt.Errorf("redis set session id: %w", err)
	}
	return nil
}
