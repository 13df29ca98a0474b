// README: Session store backed by Redis (JSON blobs with a TTL).
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"concierge/internal/types"
)

var ErrNotFound = errors.New("session not found")

const (
	sessionKeyPrefix = "conversation:session:"
	// Sessions are demo-scoped; a day of idle time is plenty.
	sessionTTL = 24 * time.Hour
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.redis.Set(ctx, sessionKey(sess.ID), data, sessionTTL).Err()
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func sessionKey(id types.ID) string {
	return sessionKeyPrefix + string(id)
}
