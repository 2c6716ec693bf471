package service

import (
	"errors"
	"testing"

	"github.com/taskflow/auth-service/internal/core/domain"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"  Alice@Example.COM ",
		"first.last+tag@mail.example.co.uk",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Fatalf("ValidateEmail(%q) returned error: %v", email, err)
		}
	}

	invalid := []string{
		"plainaddress",
		"@example.com",
		"alice@",
		"alice@localhost",
		"alice..bob@example.com",
		".alice@example.com",
		"alice@example..com",
		"alice@-example.com",
		"alice@example.com.",
		"alice bob@example.com",
	}
	for _, email := range invalid {
		err := ValidateEmail(email)
		if !errors.Is(err, domain.ErrInvalidEmail) {
			t.Fatalf("ValidateEmail(%q): expected ErrInvalidEmail, got %v", email, err)
		}
	}

	if err := ValidateEmail("   "); !errors.Is(err, domain.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired for blank email, got %v", err)
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		message  string
	}{
		{"short1", "Password must be at least 8 characters long."},
		{"alllowercase1", "Password must contain at least one uppercase letter."},
		{"ALLUPPERCASE1", "Password must contain at least one lowercase letter."},
		{"NoDigitsHere", "Password must contain at least one number."},
	}
	for _, tt := range tests {
		err := CheckPasswordStrength(tt.password)
		if !errors.Is(err, domain.ErrWeakPassword) {
			t.Fatalf("CheckPasswordStrength(%q): expected ErrWeakPassword, got %v", tt.password, err)
		}
		var fe *domain.FieldError
		if !errors.As(err, &fe) || fe.Field != "password" || fe.Message != tt.message {
			t.Fatalf("CheckPasswordStrength(%q): unexpected detail %+v", tt.password, fe)
		}
	}

	if err := CheckPasswordStrength("ValidPass123"); err != nil {
		t.Fatalf("expected ValidPass123 to pass, got %v", err)
	}
	if err := CheckPasswordStrength(""); !errors.Is(err, domain.ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}
