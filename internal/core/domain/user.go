package domain

import (
	"errors"
	"strings"
	"time"
)

// UserStatus represents the lifecycle state of a user account.
type UserStatus string

const (
	StatusUnverified UserStatus = "unverified"
	StatusActive     UserStatus = "active"
	StatusBlocked    UserStatus = "blocked"
)

var ErrEmailExists = errors.New("email already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserBlocked = errors.New("account is blocked")
var ErrUserNotFound = errors.New("user not found")
var ErrTokenNotFound = errors.New("verification token not found")

// User models a registered account. PasswordHash and VerifyToken never leave
// the server; JSON tags exclude them from every response.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Status       UserStatus `json:"status"`
	VerifyToken  string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"-"`
}

// Blocked reports whether the account may not hold a session.
func (u *User) Blocked() bool {
	return u.Status == StatusBlocked
}

// NormalizeEmail returns the canonical form used for storage and lookup:
// trimmed and lower-cased, so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
