package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore marks revoked token ids in Redis until the token's own expiry.
type RevocationStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, clock: time.Now}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(s.clock())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.key(tokenID), "1", ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RevocationStore) key(tokenID string) string {
	return "trivia:revoked:" + tokenID
}
