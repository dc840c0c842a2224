package todos

import (
	"context"
	"sync"
	"time"
)

// InMemory implements Service with in-process concurrency safety.
type InMemory struct {
	mu     sync.RWMutex
	rows   []Todo
	nextID int64
}

var _ Service = (*InMemory)(nil)

// NewInMemory creates an empty todo collection.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) List(ctx context.Context, f Filter) ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Todo
	for _, t := range s.rows {
		if f.StudentID != 0 && t.StudentID != f.StudentID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		filtered = append(filtered, t)
	}

	skip := f.Skip
	if skip > len(filtered) {
		skip = len(filtered)
	}
	filtered = filtered[skip:]
	if f.Limit > 0 && len(filtered) > f.Limit {
		filtered = filtered[:f.Limit]
	}
	out := make([]Todo, len(filtered))
	copy(out, filtered)
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, id int64) (Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return Todo{}, ErrNotFound
}

func (s *InMemory) Create(ctx context.Context, in CreateInput) (Todo, error) {
	if err := NormalizeCreate(&in); err != nil {
		return Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.nextID++
	t := Todo{
		ID:          s.nextID,
		StudentID:   in.StudentID,
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusPending,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.rows = append(s.rows, t)
	return t, nil
}

func (s *InMemory) Update(ctx context.Context, id int64, upd Update) (Todo, error) {
	if err := ValidateUpdate(upd); err != nil {
		return Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID != id {
			continue
		}
		if upd.StudentID != nil {
			s.rows[i].StudentID = *upd.StudentID
		}
		if upd.Title != nil {
			s.rows[i].Title = *upd.Title
		}
		if upd.Description != nil {
			s.rows[i].Description = *upd.Description
		}
		if upd.Status != nil {
			s.rows[i].Status = *upd.Status
		}
		if upd.Priority != nil {
			s.rows[i].Priority = *upd.Priority
		}
		if upd.DueDate != nil {
			due := *upd.DueDate
			s.rows[i].DueDate = &due
		}
		s.rows[i].UpdatedAt = time.Now().UTC()
		return s.rows[i], nil
	}
	return Todo{}, ErrNotFound
}

func (s *InMemory) Delete(ctx context.Context, id int64) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			removed := s.rows[i]
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return removed, nil
		}
	}
	return Todo{}, ErrNotFound
}

func (s *InMemory) Stats(ctx context.Context, now time.Time) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st Stats
	st.Total = len(s.rows)
	for _, t := range s.rows {
		switch t.Status {
		case StatusPending:
			st.Pending++
		case StatusInProgress:
			st.InProgress++
		case StatusCompleted:
			st.Completed++
		}
		if t.DueDate != nil && t.DueDate.Before(now) {
			st.Overdue++
		}
		if t.Priority == PriorityHigh || t.Priority == PriorityCritical {
			st.HighPriority++
		}
	}
	return st, nil
}
