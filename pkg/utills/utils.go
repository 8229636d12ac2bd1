package utils

import "strings"

const MinPasswordLength = 8

// HasLetter returns true if s contains at least one ASCII letter (a-zA-Z)
func HasLetter(s string) bool {
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return true
		}
	}
	return false
}

// HasNumber returns true if s contains at least one ASCII digit (0-9)
func HasNumber(s string) bool {
	for _, r := range s {
		if '0' <= r && r <= '9' {
			return true
		}
	}
	return false
}

// PasswordProblem returns a user-facing message for a weak or mismatched
// password, or "" when it is acceptable.
func PasswordProblem(password, confirm string) string {
	switch {
	case len(password) < MinPasswordLength:
		return "Password must be at least 8 characters long"
	case !HasLetter(password) || !HasNumber(password):
		return "Password must contain at least one letter and one number"
	case password != confirm:
		return "Passwords do not match"
	}
	return ""
}

// LooksLikeEmail is a cheap shape check, not RFC validation.
func LooksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
