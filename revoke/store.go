package revoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "rvk"

// ErrRedisUnavailable wraps any backend failure. Callers decide whether to
// fail open or closed; the session guard fails closed.
var ErrRedisUnavailable = errors.New("revocation redis unavailable")

// Store is a Redis-backed token denylist keyed by token id. Safe for
// concurrent use.
type Store struct {
	redis  *redis.Client
	prefix string
}

// NewStore creates a denylist store on the given client.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{
		redis:  redisClient,
		prefix: denylistKeyPrefix,
	}
}

func (s *Store) key(tokenID string) string {
	return s.prefix + ":" + tokenID
}

// Revoke marks tokenID as revoked until ttl elapses. A non-positive ttl means
// the token is already expired and there is nothing to deny.
func (s *Store) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("empty token id")
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether tokenID is on the denylist.
func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	n, err := s.redis.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}
