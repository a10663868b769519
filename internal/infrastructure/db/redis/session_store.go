package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

const defaultSessionTTL = 30 * time.Minute

// SessionStore keeps per-user capture state as JSON values under
// session:<user_id>. Every write renews the TTL, so an abandoned flow expires
// on its own and the user reads back as idle.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// A non-positive ttl falls back to defaultSessionTTL.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Get returns the user's session. A missing or expired key reads as the idle
// session, not an error.
func (s *SessionStore) Get(ctx context.Context, userID int64) (domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("session get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt value must not wedge the user; treat it as idle.
		_ = s.client.Del(ctx, s.key(userID)).Err()
		return domain.Session{}, nil
	}
	return sess, nil
}

// Set replaces the user's session wholesale and renews the TTL.
func (s *SessionStore) Set(ctx context.Context, userID int64, sess domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Clear removes the session; clearing an absent session is a no-op.
func (s *SessionStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}
