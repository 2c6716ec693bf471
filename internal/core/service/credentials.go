package service

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// MinPasswordLength is the shortest password the strength policy accepts.
const MinPasswordLength = 8

var validate = validator.New()

// ValidateEmail checks the normalized form of email. Beyond the validator's
// RFC check it requires a dotted domain and rejects empty dot-atoms.
func ValidateEmail(email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.NewFieldError("email", domain.ErrEmailRequired, "This field is required.")
	}

	invalid := domain.NewFieldError("email", domain.ErrInvalidEmail, "Enter a valid email address.")
	if err := validate.Var(email, "email"); err != nil {
		return invalid
	}

	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return invalid
	}
	local, host := email[:at], email[at+1:]
	if strings.Contains(local, "..") || strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return invalid
	}
	if !strings.Contains(host, ".") || strings.Contains(host, "..") ||
		strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") ||
		strings.HasPrefix(host, "-") || strings.HasSuffix(host, "-") {
		return invalid
	}
	return nil
}

// CheckPasswordStrength applies the password policy and reports the first
// violated rule.
func CheckPasswordStrength(password string) error {
	weak := func(msg string) error {
		return domain.NewFieldError("password", domain.ErrWeakPassword, msg)
	}

	if password == "" {
		return domain.NewFieldError("password", domain.ErrPasswordRequired, "This field is required.")
	}
	if len([]rune(password)) < MinPasswordLength {
		return weak("Password must be at least 8 characters long.")
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return weak("Password must contain at least one uppercase letter.")
	}
	if !lower {
		return weak("Password must contain at least one lowercase letter.")
	}
	if !digit {
		return weak("Password must contain at least one number.")
	}
	return nil
}
