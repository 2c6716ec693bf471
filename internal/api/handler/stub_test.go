package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/auth-service/internal/api/middleware"
	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn         func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	profileFn       func(ctx context.Context, accountID string) (*domain.Account, error)
	updateProfileFn func(ctx context.Context, accountID string, in ports.ProfileInput) (*domain.Account, error)
	refreshFn       func(ctx context.Context, token string) (string, error)
	logoutFn        func(ctx context.Context, accountID, token string) error
	provisionFn     func(ctx context.Context, in ports.ProvisionInput) (*domain.Account, error)
	setActiveFn     func(ctx context.Context, accountID string, active bool) (*domain.Account, error)
}

var _ ports.AuthService = (*stubAuthService)(nil)

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.profileFn(ctx, accountID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, accountID string, in ports.ProfileInput) (*domain.Account, error) {
	return s.updateProfileFn(ctx, accountID, in)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (string, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, accountID, token string) error {
	return s.logoutFn(ctx, accountID, token)
}

func (s *stubAuthService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.Account, error) {
	return s.provisionFn(ctx, in)
}

func (s *stubAuthService) SetActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	return s.setActiveFn(ctx, accountID, active)
}

// newJSONContext builds a request context with the validator installed and,
// when accountID is set, an authenticated identity.
func newJSONContext(method, target, body, accountID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if accountID != "" {
		c.Set(middleware.IdentityKey, &domain.Identity{AccountID: accountID, Type: domain.TokenTypeAccess})
	}
	return c, rec
}
