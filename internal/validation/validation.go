package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateDisplayName checks if a display name is valid
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "display_name", Message: "display name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "display_name", Message: "display name must be at least 2 characters"}
	}
	return nil
}

// ValidateChildName checks if a child's first name is valid
func ValidateChildName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "first_name", Message: "first name is required"}
	}
	return nil
}

// ValidateDateOfBirth checks that a date of birth is set and not in the future
func ValidateDateOfBirth(dob time.Time, now time.Time) error {
	if dob.IsZero() {
		return ValidationError{Field: "date_of_birth", Message: "date of birth is required"}
	}
	if dob.After(now) {
		return ValidationError{Field: "date_of_birth", Message: "date of birth cannot be in the future"}
	}
	return nil
}
