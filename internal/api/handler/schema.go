package handler

import (
	"time"

	"github.com/taskflow/auth-service/internal/core/domain"
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// profilePatchRequest uses pointers so absent fields stay untouched.
type profilePatchRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type profilePutRequest struct {
	Email     *string `json:"email" validate:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type provisionRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Privileged bool   `json:"privileged"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type profileResponse struct {
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type authResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    profileResponse `json:"user"`
}

type accessResponse struct {
	Access string `json:"access"`
}

type accountResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toProfileResponse(a *domain.Account) profileResponse {
	return profileResponse{
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		IsActive:    a.IsActive,
		IsStaff:     a.IsStaff,
		IsSuperuser: a.IsSuperuser,
		LastLogin:   a.LastLogin,
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
}

func toAuthResponse(a *domain.Account, tokens *domain.TokenPair) authResponse {
	return authResponse{
		Access:  tokens.Access,
		Refresh: tokens.Refresh,
		User:    toProfileResponse(a),
	}
}
