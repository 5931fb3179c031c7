package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks the latest valid refresh jti per subject in Redis.
// Key format: refresh:<subject>, value: jti, TTL: the refresh-token lifetime
// (a record outliving its token would be unverifiable anyway).
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) SetLatest(ctx context.Context, subject, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(subject), tokenID, ttl).Err(); err != nil {
		return fmt.Errorf("set refresh jti: %w", err)
	}
	return nil
}

func (s *TokenStore) Latest(ctx context.Context, subject string) (string, error) {
	v, err := s.client.Get(ctx, s.key(subject)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get refresh jti: %w", err)
	}
	return v, nil
}

// consumeScript swaps the recorded jti for a new one only when the current
// value matches. Scripts run atomically in Redis, so concurrent rotations of
// the same token resolve to exactly one winner.
var consumeScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0`)

func (s *TokenStore) ConsumeIfLatest(ctx context.Context, subject, expectedID, newID string, ttl time.Duration) (bool, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.key(subject)}, expectedID, newID, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("consume refresh jti: %w", err)
	}
	return res == 1, nil
}

func (s *TokenStore) Revoke(ctx context.Context, subject string) error {
	if err := s.client.Del(ctx, s.key(subject)).Err(); err != nil {
		return fmt.Errorf("revoke refresh jti: %w", err)
	}
	return nil
}

func (s *TokenStore) key(subject string) string {
	return "refresh:" + subject
}
