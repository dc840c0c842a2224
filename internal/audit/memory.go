package audit

import (
	"context"
	"sync"
	"time"
)

// InMemory implements Recorder with in-process concurrency safety.
type InMemory struct {
	mu     sync.RWMutex
	rows   []Entry
	nextID int64
}

var _ Recorder = (*InMemory)(nil)

// NewInMemory creates an empty trail.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Record(ctx context.Context, e *Entry) error {
	if e.TableName == "" || e.Action == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.rows = append(s.rows, *e)
	return nil
}

func (s *InMemory) List(ctx context.Context, limit, offset int) ([]Entry, int, error) {
	limit = ClampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.rows)
	// Entries append in id order; newest-first is a reverse walk.
	start := total - 1 - offset
	var out []Entry
	for i := start; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	return out, total, nil
}
