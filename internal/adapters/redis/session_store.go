package redis

// Package redis provides Redis-based adapters for the wayfarer back office.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
)

// SessionStore is a Redis-based session store for production use. It handles
// TTL semantics based on session ExpiresAt and keeps a per-user index so all
// of a user's sessions can be removed in one sign-out.
type SessionStore struct {
	client    redis.UniversalClient
	prefix    string
	idxPrefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "session:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client:    client,
		prefix:    prefix,
		idxPrefix: prefix + "user:",
	}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.UserID == "" {
		return errors.New("session user ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		// Session is already expired, don't save it
		return errors.New("session is expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+sess.ID, data, ttl)
	idxKey := s.idxPrefix + sess.UserID
	pipe.SAdd(ctx, idxKey, sess.ID)
	// Keep the index alive at least as long as its longest-lived session.
	pipe.Expire(ctx, idxKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Double-check expiration (Redis TTL should handle this, but be defensive)
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	// Fetch first so the user index entry can be removed too; a missing row
	// still deletes the key below.
	if data, err := s.client.Get(ctx, s.prefix+id).Result(); err == nil {
		var sess domainauth.Session
		if json.Unmarshal([]byte(data), &sess) == nil && sess.UserID != "" {
			if err := s.client.SRem(ctx, s.idxPrefix+sess.UserID, id).Err(); err != nil {
				return fmt.Errorf("redis unindex session: %w", err)
			}
		}
	}

	return s.client.Del(ctx, s.prefix+id).Err()
}

// DeleteForUser removes every session row belonging to the user.
func (s *SessionStore) DeleteForUser(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	idxKey := s.idxPrefix + userID
	ids, err := s.client.SMembers(ctx, idxKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.prefix+id)
	}
	keys = append(keys, idxKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete user sessions: %w", err)
	}
	return nil
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
