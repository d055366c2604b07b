package domain

import (
	"regexp"
	"strings"
	"time"
)

// emailPattern is intentionally loose: one @, no whitespace, a dot in the
// domain part. Deliverability is the mail server's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the string looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// LooksLikeEmail is an alias used by identifier resolution, where matching
// the email shape decides which lookup path to take.
func LooksLikeEmail(s string) bool {
	return ValidEmail(s)
}

// User is an authentication account. Public identity lives on Profile.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"` // stored lowercase
	PasswordHash string `json:"-"`
	// PendingUsername and PendingDisplayName stash the signup metadata until
	// profile bootstrap consumes it. They may hold invalid values; bootstrap
	// validates and skips rather than failing the account.
	PendingUsername    string    `json:"-"`
	PendingDisplayName string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
