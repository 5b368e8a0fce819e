package model

import (
	"fmt"
	"strings"
	"time"
)

// User represents a registered account. The capability flags are independent:
// an account may be allowed to donate, to request, or both. They are fixed at
// registration.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsDonor      bool      `json:"is_donor"`
	IsAffected   bool      `json:"is_affected"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user's capability flags allow acting in the
// given role. Unknown roles fail closed.
func (u *User) HasRole(role Role) bool {
	switch role {
	case RoleDonor:
		return u.IsDonor
	case RoleAffected:
		return u.IsAffected
	default:
		return false
	}
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks password requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateEmail performs a basic shape check. Real validation happens when
// mail is actually sent; this only catches obviously broken input.
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
