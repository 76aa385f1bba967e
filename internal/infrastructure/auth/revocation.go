package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevoker invalidates session tokens before they expire (logout,
// forced sign-out of all sessions).
type SessionRevoker interface {
	// Revoke marks a token id (JTI) as revoked; ttl should cover the
	// token's remaining lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks whether a token id has been revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser invalidates every token of a user issued up to now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserRevoked checks whether a token issued at the given time has
	// been invalidated by a user-wide revocation
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// RedisSessionRevoker implements SessionRevoker on Redis
type RedisSessionRevoker struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionRevoker creates a revoker with an existing Redis client
func NewRedisSessionRevoker(client *redis.Client) *RedisSessionRevoker {
	return &RedisSessionRevoker{
		client:    client,
		keyPrefix: "session:revoked:",
	}
}

func (r *RedisSessionRevoker) jtiKey(jti string) string {
	return r.keyPrefix + "jti:" + jti
}

func (r *RedisSessionRevoker) userKey(userID string) string {
	return r.keyPrefix + "user:" + userID
}

// Revoke marks a token id as revoked
func (r *RedisSessionRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks whether a token id has been revoked
func (r *RedisSessionRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}

// RevokeUser invalidates all tokens of a user by storing the current timestamp
func (r *RedisSessionRevoker) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return nil
}

// IsUserRevoked checks whether a token predates a user-wide revocation
func (r *RedisSessionRevoker) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	revokedAtStr, err := r.client.Get(ctx, r.userKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}

	var revokedAt int64
	if _, err := fmt.Sscanf(revokedAtStr, "%d", &revokedAt); err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}

// Ensure RedisSessionRevoker implements SessionRevoker
var _ SessionRevoker = (*RedisSessionRevoker)(nil)

// InMemorySessionRevoker provides an in-memory implementation for testing.
// Not suitable for production with multiple instances.
type InMemorySessionRevoker struct {
	mu       sync.RWMutex
	jtis     map[string]time.Time // JTI -> expiration time
	userCuts map[string]time.Time // userID -> revocation time
}

// NewInMemorySessionRevoker creates a new in-memory revoker
func NewInMemorySessionRevoker() *InMemorySessionRevoker {
	return &InMemorySessionRevoker{
		jtis:     make(map[string]time.Time),
		userCuts: make(map[string]time.Time),
	}
}

// Revoke marks a token id as revoked until its ttl elapses
func (r *InMemorySessionRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jtis[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks whether a token id is revoked (and not expired)
func (r *InMemorySessionRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiration, exists := r.jtis[jti]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiration) {
		delete(r.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser invalidates all tokens of a user
func (r *InMemorySessionRevoker) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userCuts[userID] = time.Now()
	return nil
}

// IsUserRevoked checks whether a token predates a user-wide revocation
func (r *InMemorySessionRevoker) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cut, exists := r.userCuts[userID]
	if !exists {
		return false, nil
	}
	return !issuedAt.After(cut), nil
}

// Ensure InMemorySessionRevoker implements SessionRevoker
var _ SessionRevoker = (*InMemorySessionRevoker)(nil)
