package ports

import (
	"context"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// RegisterInput is the raw registration request.
type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

// LoginInput is the raw login request.
type LoginInput struct {
	Email    string
	Password string
}

// ProfileInput is a profile update. Nil fields were not supplied.
type ProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// ProvisionInput is an administrative account creation request.
type ProvisionInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Privileged bool
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Account *domain.Account
	Tokens  *domain.TokenPair
}

// AuthService is the use-case layer the HTTP handlers talk to.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Profile(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID string, in ProfileInput) (*domain.Account, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accountID, refreshToken string) error
	Provision(ctx context.Context, in ProvisionInput) (*domain.Account, error)
	SetActive(ctx context.Context, accountID string, active bool) (*domain.Account, error)
}
