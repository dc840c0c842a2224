package auth

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements UserStore with in-process concurrency safety.
// It serves deployments without a configured DSN and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	byName map[string]*User
	nextID int64
}

var _ UserStore = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty credential store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byName: make(map[string]*User)}
}

func (s *InMemoryStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[u.Username]; ok {
		return ErrAlreadyExists
	}
	s.nextID++
	u.ID = s.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	s.byName[u.Username] = &cp
	return nil
}

func (s *InMemoryStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}
