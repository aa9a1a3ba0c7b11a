package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

const blacklistKeyPrefix = "foodgram:revoked:"

type (
	// TokenBlacklist remembers logged-out tokens until they would have
	// expired anyway.
	TokenBlacklist interface {
		Revoke(ctx context.Context, token string, ttl time.Duration) error
		IsRevoked(ctx context.Context, token string) (bool, error)
	}

	redisTokenBlacklist struct {
		client *redis.Client
	}

	noopTokenBlacklist struct{}
)

func NewRedisTokenBlacklist(client *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{client: client}
}

// NewNoopTokenBlacklist is used when no redis is configured: logout
// succeeds but tokens stay valid until expiry.
func NewNoopTokenBlacklist() TokenBlacklist {
	return noopTokenBlacklist{}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}

func (b *redisTokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistKey(token), 1, ttl).Err()
}

func (b *redisTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (noopTokenBlacklist) Revoke(context.Context, string, time.Duration) error {
	return nil
}

func (noopTokenBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}
