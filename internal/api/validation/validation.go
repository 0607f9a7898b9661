package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

var (
	// EmailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Usernames are 3-50 characters of letters, digits, dot, dash and underscore
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,50}$`)
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 100 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUsername checks if the string is a valid username
func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// IsValidPassword checks password length limits
func IsValidPassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > MaxPasswordLength {
		return false, "Password must be at most 72 bytes"
	}
	return true, ""
}

// SanitizeString removes potentially dangerous characters for display
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Remove control characters except newlines and tabs
	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// CleanTitle trims and sanitizes a single-line name or title.
func CleanTitle(s string) string {
	return strings.TrimSpace(SanitizeString(s))
}

// TooLong reports whether s has more than maxLen characters.
func TooLong(s string, maxLen int) bool {
	return utf8.RuneCountInString(s) > maxLen
}
