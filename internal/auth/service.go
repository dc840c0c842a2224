// Package auth implements the credential store and the session
// authority: bcrypt password verification, HS256 session tokens, and
// role-gated registration.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service provides login, registration and token verification.
type Service struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the session authority. The signing secret is
// mandatory; configuration refuses to load without one.
func NewService(users UserStore, secret []byte, ttl time.Duration, opts ...ServiceOption) *Service {
	s := &Service{users: users, secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenTTL reports the configured session lifetime.
func (s *Service) TokenTTL() time.Duration { return s.ttl }

// Login authenticates a username/password pair.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with the default role. Only an admin
// actor may register users.
func (s *Service) Register(ctx context.Context, actor *User, username, email, password string) (*User, error) {
	if actor == nil || actor.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate maps a raw session token to a stored user. A valid
// signature whose subject no longer resolves still yields
// ErrInvalidToken.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not
// exist yet. Called once at startup.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, &User{
		Username:     username,
		Email:        username + "@localhost",
		PasswordHash: hash,
		Role:         RoleAdmin,
		CreatedAt:    s.now().UTC(),
	})
}
