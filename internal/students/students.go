// Package students implements the student resource service.
package students

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("students: not found")

// Student is one tracked student record.
type Student struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"student_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput carries the fields accepted on creation. UserID is the
// authenticated owner, never client-supplied.
type CreateInput struct {
	UserID int64
	Name   string
	Email  string
	Phone  string
}

// Update applies only the fields that are set. Nil means "leave
// untouched", mirroring a partial PUT body.
type Update struct {
	Name  *string `json:"student_name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Service defines student operations. Mutations return the resulting
// row so callers can snapshot it for the audit trail.
type Service interface {
	List(ctx context.Context) ([]Student, error)
	Get(ctx context.Context, id int64) (Student, error)
	Create(ctx context.Context, in CreateInput) (Student, error)
	Update(ctx context.Context, id int64, upd Update) (Student, error)
	// Delete returns the removed row or ErrNotFound; a failed delete
	// leaves the collection unchanged.
	Delete(ctx context.Context, id int64) (Student, error)
}
