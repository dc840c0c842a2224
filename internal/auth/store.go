package auth

import "context"

// UserStore is the credential store backing the session authority.
// Users are created by registration and never updated or deleted.
type UserStore interface {
	// Create inserts a new user and assigns its ID. Returns
	// ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, u *User) error

	// FindByUsername returns ErrNotFound for unknown usernames.
	FindByUsername(ctx context.Context, username string) (*User, error)
}
