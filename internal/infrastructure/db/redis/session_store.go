package redis

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

const (
	sessionKeyPrefix = "session:"
	tokenBytes       = 32
)

// SessionStore keeps sessions in Redis under session:<sha256(token)>, so a
// leaked keyspace does not reveal usable tokens. Entries expire with the
// session itself.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Create stores s and returns a fresh random token for it.
func (s *SessionStore) Create(ctx context.Context, sess domain.Session) (string, error) {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", fmt.Errorf("create session: expiry %s is in the past", sess.ExpiresAt.Format(time.RFC3339))
	}

	b := make([]byte, tokenBytes)
	_, _ = rand.Read(b)
	token := base64.RawURLEncoding.EncodeToString(b)

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(token), data, ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Find resolves token to its session.
func (s *SessionStore) Find(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	// Redis expiry has second granularity; do not hand out a session past
	// its recorded deadline.
	if sess.Expired(s.now()) {
		_ = s.client.Del(ctx, s.key(token)).Err()
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

// Delete removes the session for token, if any.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return sessionKeyPrefix + hex.EncodeToString(sum[:])
}
