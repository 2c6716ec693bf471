package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// AccountLoader resolves the current state of an authenticated account. It
// returns domain.ErrAccountInactive for deactivated accounts.
type AccountLoader interface {
	Profile(ctx context.Context, accountID string) (*domain.Account, error)
}

// RequireStaff lets through only active staff accounts. The staff flag is read
// from the stored account, not the token, so deactivation and demotion take
// effect before the access token expires. It must run after Auth.
func RequireStaff(accounts AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return domain.ErrAuthInvalid
			}

			account, err := accounts.Profile(c.Request().Context(), id.AccountID)
			if err != nil {
				return err
			}
			if !account.IsStaff {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
