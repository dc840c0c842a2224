package auth

import "time"

// Role literals compared case-sensitively. RoleAdmin is the privileged
// designator required for user registration.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account able to sign in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
