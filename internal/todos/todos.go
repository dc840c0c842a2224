// Package todos implements the todo resource service, including the
// derived statistics view.
package todos

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound     = errors.New("todos: not found")
	ErrInvalidInput = errors.New("todos: invalid input")
)

// Status values. "overdue" exists as a stored value for compatibility,
// but the stats view derives overdue from due_date, never from it.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

// Priority values.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Todo is one task attached to a student.
type Todo struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"student_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateInput carries the fields accepted on creation. Status is always
// pending on a fresh todo; priority defaults to medium.
type CreateInput struct {
	StudentID   int64
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// Update applies only the fields that are set.
type Update struct {
	StudentID   *int64     `json:"student_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// Filter narrows List results. Zero values mean "no filter".
type Filter struct {
	StudentID int64
	Status    string
	Priority  string
	Skip      int
	Limit     int
}

// Stats is the aggregate view over the whole collection. Overdue is
// derived from due_date < now regardless of stored status.
type Stats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	InProgress   int `json:"in_progress"`
	Completed    int `json:"completed"`
	Overdue      int `json:"overdue"`
	HighPriority int `json:"high_priority"`
}

// Service defines todo operations.
type Service interface {
	List(ctx context.Context, f Filter) ([]Todo, error)
	Get(ctx context.Context, id int64) (Todo, error)
	Create(ctx context.Context, in CreateInput) (Todo, error)
	Update(ctx context.Context, id int64, upd Update) (Todo, error)
	Delete(ctx context.Context, id int64) (Todo, error)
	Stats(ctx context.Context, now time.Time) (Stats, error)
}

// ValidStatus reports whether s belongs to the closed status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// ValidPriority reports whether p belongs to the closed priority set.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// NormalizeCreate applies defaults and validates the closed sets.
func NormalizeCreate(in *CreateInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.StudentID <= 0 {
		return fmt.Errorf("%w: student_id is required", ErrInvalidInput)
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !ValidPriority(in.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, in.Priority)
	}
	return nil
}

// ValidateUpdate checks the supplied fields against the closed sets.
func ValidateUpdate(upd Update) error {
	if upd.Title != nil && *upd.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if upd.Status != nil && !ValidStatus(*upd.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *upd.Status)
	}
	if upd.Priority != nil && !ValidPriority(*upd.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *upd.Priority)
	}
	return nil
}
