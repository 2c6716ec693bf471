package domain

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Authenticatable is the capability an identity record must expose to be
// used for email/password login.
type Authenticatable interface {
	IdentityKey() string
	VerifyPassword(raw string) bool
	Enabled() bool
}

// Account is the persisted identity record. Email is stored normalized and is
// the only login key.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var _ Authenticatable = (*Account)(nil)

// IdentityKey returns the normalized email.
func (a *Account) IdentityKey() string { return a.Email }

// VerifyPassword compares raw against the stored bcrypt hash in constant time.
func (a *Account) VerifyPassword(raw string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(raw)) == nil
}

// Enabled reports whether the account may authenticate.
func (a *Account) Enabled() bool { return a.IsActive }

// FullName returns "first last", or the email when both names are empty.
func (a *Account) FullName() string {
	full := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if full == "" {
		return a.Email
	}
	return full
}

// ShortName returns the first name, or the email when it is empty.
func (a *Account) ShortName() string {
	if a.FirstName == "" {
		return a.Email
	}
	return a.FirstName
}

// ProfileFields carries the optional name fields supplied on creation.
type ProfileFields struct {
	FirstName string
	LastName  string
}

// AccountChanges is a partial update. Nil fields are left untouched.
type AccountChanges struct {
	Email     *string
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// Empty reports whether no field is set.
func (c AccountChanges) Empty() bool {
	return c.Email == nil && c.FirstName == nil && c.LastName == nil && c.IsActive == nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NextTimestamp returns now truncated to millisecond precision (the coarsest
// precision any store keeps), bumped past prev so timestamps never go back.
func NextTimestamp(now, prev time.Time) time.Time {
	ts := now.UTC().Truncate(time.Millisecond)
	if !prev.IsZero() && !ts.After(prev) {
		ts = prev.UTC().Add(time.Millisecond)
	}
	return ts
}
