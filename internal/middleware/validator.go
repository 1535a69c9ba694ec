package middleware

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const MinPasswordLength = 6

// ValidateEmail accepts a bare address (no display name).
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateID checks that a path id is a UUID.
func ValidateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid %s id", kind)
	}
	return nil
}

// SanitizeString removes NUL and control characters except tab, newline and
// carriage return, then trims.
func SanitizeString(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ParseLimit reads a ?limit= value. Empty means def; the result is clamped
// to [1, ceiling].
func ParseLimit(raw string, def, ceiling int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer")
	}
	if n <= 0 {
		return def, nil
	}
	if n > ceiling {
		return ceiling, nil
	}
	return n, nil
}
