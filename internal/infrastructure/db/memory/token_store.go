// Package memory provides the in-process refresh-rotation store used in tests
// and redis-less deployments.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	tokenID   string
	expiresAt time.Time
}

// TokenStore is a mutex-guarded map of subject → latest refresh jti.
type TokenStore struct {
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewTokenStore creates a TokenStore. now may be nil (time.Now).
func NewTokenStore(now func() time.Time) *TokenStore {
	if now == nil {
		now = time.Now
	}
	return &TokenStore{now: now, entries: make(map[string]entry)}
}

func (s *TokenStore) SetLatest(_ context.Context, subject, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[subject] = entry{tokenID: tokenID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *TokenStore) Latest(_ context.Context, subject string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[subject]
	if !ok {
		return "", nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, subject)
		return "", nil
	}
	return e.tokenID, nil
}

func (s *TokenStore) ConsumeIfLatest(_ context.Context, subject, expectedID, newID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[subject]
	if !ok || s.now().After(e.expiresAt) || e.tokenID != expectedID {
		return false, nil
	}
	s.entries[subject] = entry{tokenID: newID, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *TokenStore) Revoke(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, subject)
	return nil
}
