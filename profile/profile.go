// ABOUTME: User profile with field validation and persistence
// ABOUTME: Invalid profiles are never saved; per-field messages are returned instead

// Package profile validates and stores the local user profile.
package profile

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"unicode/utf8"

	"playlist-editor/store"
)

const minUsernameLen = 3

// Field validation messages
const (
	MsgUsernameTooShort = "Username must be at least 3 characters."
	MsgInvalidEmail     = "Please enter a valid email address."
)

// ErrInvalidProfile is returned by Save when validation fails
var ErrInvalidProfile = errors.New("invalid profile")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AvatarColors are the backgrounds of the initials avatar shown when no image is set
var AvatarColors = []string{"#E84E1D", "#1DB954", "#E91E63", "#3F51B5", "#FF9800"}

// Profile is the locally stored user identity
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`   // Image reference
	AvatarBg string `json:"avatarBg,omitempty"` // Fallback avatar background color
}

// ValidationErrors maps field names to messages
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))

	for _, field := range []string{"username", "email"} {
		if msg, ok := v[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}

	return strings.Join(parts, "; ")
}

// Validate checks every field and returns nil when the profile can be saved
func (p Profile) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if utf8.RuneCountInString(p.Username) < minUsernameLen {
		errs["username"] = MsgUsernameTooShort
	}

	if !emailPattern.MatchString(p.Email) {
		errs["email"] = MsgInvalidEmail
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// DisplayName returns the username or "Guest" when none is set
func (p Profile) DisplayName() string {
	if p.Username == "" {
		return "Guest"
	}

	return p.Username
}

// Load returns the stored profile; ok is false when none has been saved
func Load(ctx context.Context, repo *store.Repository) (Profile, bool, error) {
	var p Profile

	ok, err := repo.LoadJSON(ctx, store.ProfileKey, &p)
	if err != nil {
		return Profile{}, false, fmt.Errorf("failed to load profile: %w", err)
	}

	return p, ok, nil
}

// DefaultAvatarBg picks a stable avatar background for username
func DefaultAvatarBg(username string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))

	return AvatarColors[h.Sum32()%uint32(len(AvatarColors))]
}

// Save validates and stores p. A profile without an avatar image gets a background color.
func Save(ctx context.Context, repo *store.Repository, p Profile) error {
	if errs := p.Validate(); errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, errs)
	}

	if p.Avatar == "" && p.AvatarBg == "" {
		p.AvatarBg = DefaultAvatarBg(p.Username)
	}

	if err := repo.SaveJSON(ctx, store.ProfileKey, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}
