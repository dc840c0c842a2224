package students

import (
	"context"
	"sync"
	"time"
)

// InMemory implements Service with in-process concurrency safety.
type InMemory struct {
	mu     sync.RWMutex
	rows   []Student
	nextID int64
}

var _ Service = (*InMemory)(nil)

// NewInMemory creates an empty student collection.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) List(ctx context.Context) ([]Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Student, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, id int64) (Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.rows {
		if st.ID == id {
			return st, nil
		}
	}
	return Student{}, ErrNotFound
}

func (s *InMemory) Create(ctx context.Context, in CreateInput) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.nextID++
	st := Student{
		ID:        s.nextID,
		UserID:    in.UserID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.rows = append(s.rows, st)
	return st, nil
}

func (s *InMemory) Update(ctx context.Context, id int64, upd Update) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID != id {
			continue
		}
		if upd.Name != nil {
			s.rows[i].Name = *upd.Name
		}
		if upd.Email != nil {
			s.rows[i].Email = *upd.Email
		}
		if upd.Phone != nil {
			s.rows[i].Phone = *upd.Phone
		}
		s.rows[i].UpdatedAt = time.Now().UTC()
		return s.rows[i], nil
	}
	return Student{}, ErrNotFound
}

func (s *InMemory) Delete(ctx context.Context, id int64) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			removed := s.rows[i]
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return removed, nil
		}
	}
	return Student{}, ErrNotFound
}
