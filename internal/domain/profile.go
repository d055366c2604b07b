package domain

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Username and display name constraints.
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 24
	MaxDisplayNameLength = 50
)

// usernamePattern accepts the pre-lowercased form. Mixed-case input is
// allowed at the boundary but stored lowercase, so uniqueness is
// case-insensitive by construction.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)

// ValidUsername reports whether the raw (possibly mixed-case) username is acceptable.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// ValidDisplayName reports whether the display name is acceptable after normalization.
func ValidDisplayName(s string) bool {
	normalized := NormalizeDisplayName(s)
	return normalized != "" && len(normalized) <= MaxDisplayNameLength
}

// NormalizeDisplayName trims surrounding whitespace and applies Unicode NFC,
// so visually identical names compare and store identically.
func NormalizeDisplayName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Profile is a user's public-facing identity record.
// Stored separately from User to keep auth concerns separate from social features.
type Profile struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"` // unique, stored lowercase
	DisplayName string `json:"display_name"`
	// ProfilePublic gates every public read of this user's data. An item or
	// review is visible to others only when this AND its own flag are true.
	ProfilePublic       bool      `json:"profile_public"`
	DefaultItemPublic   bool      `json:"default_item_public"`
	DefaultReviewPublic bool      `json:"default_review_public"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewProfile creates a profile with the visibility defaults applied to
// first-time signups: everything public until the owner opts out.
func NewProfile(userID, username, displayName string) *Profile {
	now := time.Now()
	return &Profile{
		UserID:              userID,
		Username:            strings.ToLower(username),
		DisplayName:         NormalizeDisplayName(displayName),
		ProfilePublic:       true,
		DefaultItemPublic:   true,
		DefaultReviewPublic: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// PublicListing is the reduced profile shape shown in the user directory.
type PublicListing struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
