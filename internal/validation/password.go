// Package validation provides input validation utilities
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"lattice/internal/models"
)

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	identRe  = regexp.MustCompile(`[^A-Za-z0-9_@.\-]`)
)

// IsComplex reports whether a password meets the complexity policy:
// length >= 8 with at least one uppercase letter, one lowercase letter,
// one digit and one symbol from !@#$%^&*(),.?":{}|<>.
func IsComplex(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	return upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		symbolRe.MatchString(password)
}

// ValidatePassword checks the password against the complexity policy.
func ValidatePassword(password string) error {
	if !IsComplex(password) {
		return models.NewWeakPasswordError()
	}
	return nil
}

// SanitizeIdentifier normalizes a username, email or login identifier:
// surrounding whitespace is stripped and every character outside
// [A-Za-z0-9_@.-] is removed. Signup and login apply the same rule so a
// stored identifier always matches its login form.
func SanitizeIdentifier(s string) string {
	return identRe.ReplaceAllString(strings.TrimSpace(s), "")
}
