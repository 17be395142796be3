// Package token stores activation tokens with an expiry. An entry maps a
// token to the account it activates.
package token

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"signup/pkg/platform/sentinel"
)

// Clock returns the current time.
type Clock func() time.Time

type entry struct {
	accountID uuid.UUID
	expiresAt time.Time
}

// InMemoryStore keeps activation tokens in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   Clock
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemory constructs an empty token store.
func NewInMemory(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save records token for accountID until ttl elapses.
func (s *InMemoryStore) Save(_ context.Context, token string, accountID uuid.UUID, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = entry{accountID: accountID, expiresAt: s.clock().Add(ttl)}
	return nil
}

// Lookup returns the account for a live token, or sentinel.ErrNotFound when
// the token is unknown or expired.
func (s *InMemoryStore) Lookup(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[token]
	if !ok || !s.clock().Before(e.expiresAt) {
		return uuid.Nil, sentinel.ErrNotFound
	}
	return e.accountID, nil
}
