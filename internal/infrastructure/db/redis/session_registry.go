// Package redis holds the server-side session registry: a denylist of
// revoked session token ids that expire together with the tokens.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout  = 5 * time.Second
	revokePrefix = "session:revoked:"
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr string
	DB   int
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// SessionRegistry records revoked token ids.
// Key format: session:revoked:<jti>
type SessionRegistry struct {
	client redis.Cmdable
}

func NewSessionRegistry(client redis.Cmdable) *SessionRegistry {
	return &SessionRegistry{client: client}
}

// IsRevoked reports whether the token id was revoked and has not yet expired.
func (s *SessionRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Revoke denylists the token id for ttl, the token's remaining lifetime.
func (s *SessionRegistry) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func revokedKey(tokenID string) string {
	return revokePrefix + tokenID
}
