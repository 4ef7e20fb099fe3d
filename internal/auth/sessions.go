package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach/internal/domain"
)

// SessionStore maps opaque tokens to user IDs with a TTL.
type SessionStore interface {
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Get(ctx context.Context, token string) (uuid.UUID, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns a 256-bit random session token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// redisSessions stores sessions in Redis so they survive restarts.
type redisSessions struct {
	client *redis.Client
}

// NewRedisSessions creates a Redis-backed session store.
func NewRedisSessions(client *redis.Client) SessionStore {
	return &redisSessions{client: client}
}

func sessionKey(token string) string { return "session:" + token }

func (s *redisSessions) Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(token), userID.String(), ttl).Err()
}

func (s *redisSessions) Get(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

func (s *redisSessions) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// memorySessions is the in-process fallback when Redis is not configured.
type memorySessions struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// NewMemorySessions creates an in-process session store and starts an
// expiry sweeper that runs until ctx is canceled.
func NewMemorySessions(ctx context.Context) SessionStore {
	s := &memorySessions{sessions: make(map[string]memorySession)}
	go s.sweep(ctx)
	return s
}

func (s *memorySessions) Put(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	s.sessions[token] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *memorySessions) Get(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if time.Now().After(sess.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return uuid.Nil, domain.ErrUnauthorized
	}
	return sess.userID, nil
}

func (s *memorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *memorySessions) sweep(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if now.After(sess.expiresAt) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
