package services

import (
	"strings"
	"unicode/utf8"
)

// RegisterInput is the payload of the register mutation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

const (
	minUsernameLen = 3
	minPasswordLen = 7
	// bcrypt only accepts this many bytes
	maxPasswordBytes = 72

	minTitleLen = 2
	maxTitleLen = 70
	minTextLen  = 25
)

// ValidateRegister returns the first failing rule, or nil.
// Rules run in a fixed order: username length, email, password length,
// username without "@", then the password byte limit.
func ValidateRegister(in RegisterInput) []FieldError {
	if utf8.RuneCountInString(in.Username) < minUsernameLen {
		return fieldError("username", "length must be greater than 2")
	}
	if !strings.Contains(in.Email, "@") {
		return fieldError("email", "invalid email")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return fieldError("password", "length must be greater than 6")
	}
	if strings.Contains(in.Username, "@") {
		return fieldError("username", "username cannot include an @")
	}
	if len(in.Password) > maxPasswordBytes {
		return fieldError("password", "length must be at most 72 bytes")
	}
	return nil
}

// ValidateNewPassword checks the changePassword input.
func ValidateNewPassword(password string) []FieldError {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fieldError("newPassword", "length must be greater than 6")
	}
	if len(password) > maxPasswordBytes {
		return fieldError("newPassword", "length must be at most 72 bytes")
	}
	return nil
}

// acceptablePost reports whether a new post passes the silent content checks.
func acceptablePost(title, text string) bool {
	n := utf8.RuneCountInString(title)
	if n < minTitleLen || n > maxTitleLen {
		return false
	}
	return utf8.RuneCountInString(text) >= minTextLen
}
