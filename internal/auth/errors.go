package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords
	// alike so login responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken indicates the session token failed validation:
	// missing, malformed, badly signed, or expired.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrForbidden indicates the caller is authenticated but its role
	// does not permit the operation.
	ErrForbidden = errors.New("auth: forbidden")

	// ErrAlreadyExists indicates a unique-username violation.
	ErrAlreadyExists = errors.New("auth: already exists")

	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("auth: not found")

	// ErrInvalidInput indicates a malformed registration request.
	ErrInvalidInput = errors.New("auth: invalid input")
)
