package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"signup/internal/account/models"
	"signup/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in process memory. It allows duplicate emails
// and usernames, like the PostgreSQL store's schema.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts []*models.Account
}

// NewInMemory constructs an empty store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts = append(s.accounts, &cp)
	return nil
}

// FindAll returns copies of every account, oldest first.
func (s *InMemoryStore) FindAll(_ context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// FindByEmail matches case-insensitively and returns the oldest match.
func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	return s.findFirst(func(a *models.Account) bool {
		return strings.EqualFold(a.Email, email)
	})
}

// FindByUsername matches case-insensitively and returns the oldest match.
func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	return s.findFirst(func(a *models.Account) bool {
		return strings.EqualFold(a.Username, username)
	})
}

func (s *InMemoryStore) findFirst(match func(*models.Account) bool) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if match(a) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// DeleteAll removes every account. Test reset only.
func (s *InMemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = nil
	return nil
}
