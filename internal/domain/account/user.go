// Package account models registered users and their sessions.
package account

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/localmaps/internal/domain"
)

// Credential limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt input limit
)

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks registration input.
func ValidateRegistration(username, email, password string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return domain.NewValidationError("username", "must be between 3 and 50 characters")
	}
	if strings.ContainsAny(username, " \t\r\n:") {
		return domain.NewValidationError("username", "must not contain whitespace or ':'")
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return domain.NewValidationError("email", "is not a valid address")
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return domain.NewValidationError("password", "must be between 6 and 72 bytes")
	}
	return nil
}
