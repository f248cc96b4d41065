// Package session keeps per-user conversation state in Redis while a
// registration is in progress. Keys expire server-side, which is what
// turns an abandoned flow into the "session expired" path.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prizedraw/backend/internal/models"
)

// DefaultTTL bounds how long a half-finished registration survives.
const DefaultTTL = 30 * time.Minute

// Store is a Redis-backed session store keyed by user ID.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Get returns the user's session, or nil when none exists.
func (s *Store) Get(ctx context.Context, userID int64) (*models.Session, error) {
	raw, err := s.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Put stores the session, resetting its TTL.
func (s *Store) Put(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(sess.UserID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Delete removes the user's session. Deleting a missing session is not
// an error.
func (s *Store) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func key(userID int64) string {
	return "session:" + strconv.FormatInt(userID, 10)
}
