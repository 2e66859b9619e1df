package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidToken is returned for unknown or expired bearer tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Session associates an opaque bearer token with a user.
type Session struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists sessions keyed by token.
type SessionStore interface {
	SaveSession(ctx context.Context, token string, session Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service issues and resolves opaque bearer tokens.
type Service struct {
	sessions SessionStore
	ttl      time.Duration
}

// NewService creates a Service backed by the given session store.
func NewService(sessions SessionStore, ttl time.Duration) *Service {
	return &Service{sessions: sessions, ttl: ttl}
}

// Issue creates a new session token for the user.
func (s *Service) Issue(ctx context.Context, username string) (string, time.Time, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	expiresAt := time.Now().UTC().Add(s.ttl)

	if err := s.sessions.SaveSession(ctx, token, Session{Username: username, ExpiresAt: expiresAt}, s.ttl); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to save session: %w", err)
	}
	return token, expiresAt, nil
}

// Resolve returns the username for a token, removing it if expired.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil || session == nil {
		return "", ErrInvalidToken
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		s.sessions.DeleteSession(ctx, token)
		return "", ErrInvalidToken
	}
	return session.Username, nil
}

// Revoke removes a session token.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// MemorySessionStore is the fallback store used when Redis is not
// available. Safe for concurrent use.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

// SaveSession stores a session. The TTL is carried by Session.ExpiresAt.
func (m *MemorySessionStore) SaveSession(ctx context.Context, token string, session Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = session
	return nil
}

// GetSession returns the session for a token, or nil when unknown.
func (m *MemorySessionStore) GetSession(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// DeleteSession removes a token.
func (m *MemorySessionStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
