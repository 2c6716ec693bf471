package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. These surface as client input failures with field detail.
var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrWeakPassword     = errors.New("weak password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrFieldRequired    = errors.New("field is required")
)

// Authentication errors. These surface as 401 with generic messages.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrAuthExpired        = errors.New("token expired")
	ErrAuthInvalid        = errors.New("token invalid")
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("access forbidden")
)

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError builds a FieldError wrapping the given sentinel.
func NewFieldError(field string, err error, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Err: err}
}

// IsValidationError reports whether err belongs to the client-input category.
func IsValidationError(err error) bool {
	var fe *FieldError
	if errors.As(err, &fe) {
		return true
	}
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrDuplicateAccount) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrFieldRequired)
}

// IsAuthError reports whether err belongs to the authentication category.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountInactive) ||
		errors.Is(err, ErrAuthExpired) ||
		errors.Is(err, ErrAuthInvalid)
}

// ValidationErrors collects every field failure found in one request.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each field error so errors.Is matches their sentinels.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, fe := range v {
		errs[i] = fe
	}
	return errs
}

// Fields flattens the errors into a field → message map. The first message
// for a field wins.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// OrNil returns nil for an empty collection so callers can return it directly.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
