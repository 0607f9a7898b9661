package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "taskboard:revoked:"

// Revoker keeps a deny-list of token identifiers in Redis. Entries expire
// together with the token they block. A Revoker without a client accepts
// every token and ignores revocations.
type Revoker struct {
	client *redis.Client
}

func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

func (r *Revoker) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *Revoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if !r.Enabled() {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

func (r *Revoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}

	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
