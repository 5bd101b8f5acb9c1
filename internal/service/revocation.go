package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/blake3"
)

const revokedKeyPrefix = "revoked_token:"

// Revocations records tokens discarded at logout until their natural
// expiry. Tokens are stored by fingerprint, never in the clear.
type Revocations interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type redisRevocations struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRevocations creates a Redis-backed revocation set.
func NewRedisRevocations(client *redis.Client, now func() time.Time) Revocations {
	if now == nil {
		now = time.Now
	}
	return &redisRevocations{client: client, now: now}
}

func (r *redisRevocations) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revocationKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *redisRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

func revocationKey(token string) string {
	sum := blake3.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}
