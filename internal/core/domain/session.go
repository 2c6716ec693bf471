package domain

import "time"

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is returned on registration and login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Identity is what a verified token resolves to. It is derived from claims
// only; no store access is needed to obtain it.
type Identity struct {
	AccountID string
	Email     string
	Staff     bool
	TokenID   string
	Type      TokenType
	ExpiresAt time.Time
}
