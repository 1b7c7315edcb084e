// Package redis provides Redis-based adapters for the healer dashboard.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
)

// SessionStore persists each session under exactly two keys: an
// authentication flag and a JSON-serialized user record. Sessions do not
// expire by default; TTL is an operator opt-in and zero means no expiry.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a Redis-backed session store with no expiry.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: "session:"}
}

// NewSessionStoreWithTTL creates a session store whose keys expire after
// ttl. A zero ttl behaves like NewSessionStore.
func NewSessionStoreWithTTL(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, prefix: "session:", ttl: ttl}
}

func (s *SessionStore) flagKey(id string) string   { return s.prefix + id + ":flag" }
func (s *SessionStore) recordKey(id string) string { return s.prefix + id + ":record" }

// Write persists the flag and the serialized record in one pipeline so a
// failed login attempt never leaves partial state behind.
func (s *SessionStore) Write(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	record, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.flagKey(sess.ID), domainauth.FlagSentinel, s.ttl)
	pipe.Set(ctx, s.recordKey(sess.ID), record, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		// Best effort cleanup; the guard treats a half-written session as
		// no session anyway because the flag check comes first.
		_ = s.Clear(ctx, sess.ID)
		return fmt.Errorf("persist session keys: %w", err)
	}
	return nil
}

// ReadFlag returns the stored flag value, or "" when the key is absent.
func (s *SessionStore) ReadFlag(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	v, err := s.client.Get(ctx, s.flagKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get flag: %w", err)
	}
	return v, nil
}

// ReadRecord returns the raw serialized user record, or nil when absent.
// The bytes are returned as stored; the guard owns parsing.
func (s *SessionStore) ReadRecord(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, nil
	}
	v, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get record: %w", err)
	}
	return v, nil
}

// Clear removes both keys. Clearing an absent session is a no-op.
func (s *SessionStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.flagKey(id), s.recordKey(id)).Err()
}
