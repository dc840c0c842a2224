package pg

import (
	"context"
	"database/sql"
	"errors"

	"todoapi.org/internal/auth"
)

// UserRepo implements auth.UserStore.
type UserRepo struct{ db *sql.DB }

var _ auth.UserStore = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	err := r.db.QueryRowContext(ctx, `
		insert into users(username, email, password_hash, role)
		values($1, $2, $3, $4)
		returning id, created_at
	`, u.Username, u.Email, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return auth.ErrAlreadyExists
	}
	return err
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := r.db.QueryRowContext(ctx, `
		select id, username, email, password_hash, role, created_at
		from users where username = $1
	`, username)
	var u auth.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
