package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionTTL is the fixed inactivity window after which a session expires.
const SessionTTL = 24 * time.Hour

// SessionStore keeps server-side sessions in Redis.
// Key format: session:<session_id> -> user_id, expiring after SessionTTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, ttl: SessionTTL}
}

// Create records a new session for userID and returns its opaque id.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	sid := uuid.NewString()
	if err := s.client.Set(ctx, s.key(sid), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return sid, nil
}

// Resolve returns the user id associated with sid, refreshing the inactivity
// window. An unknown or expired session yields an empty user id, not an error.
func (s *SessionStore) Resolve(ctx context.Context, sid string) (string, error) {
	userID, err := s.client.GetEx(ctx, s.key(sid), s.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("session resolve: %w", err)
	}
	return userID, nil
}

// Destroy removes the session. Destroying an unknown session is a no-op.
func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sid string) string {
	return "session:" + sid
}
