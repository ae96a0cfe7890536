package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// SessionStore keeps login sessions as JSON under session:<id>, expiring
// with the key TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Create(ctx context.Context, id string, caller domain.Caller, ttl time.Duration) error {
	payload, err := encodeSession(caller)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Caller, error) {
	return decodeSession(s.client.Get(ctx, sessionKey(id)).Bytes())
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return "session:" + id
}

func encodeSession(caller domain.Caller) ([]byte, error) {
	payload, err := json.Marshal(caller)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return payload, nil
}

// decodeSession turns a GET reply into the stored caller. A missing or
// expired key is ErrNoActiveSession.
func decodeSession(raw []byte, err error) (*domain.Caller, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var caller domain.Caller
	if err := json.Unmarshal(raw, &caller); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &caller, nil
}
