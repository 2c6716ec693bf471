package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/taskflow/auth-service/internal/api/middleware"
	"github.com/taskflow/auth-service/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. A missing
// identity means the route was mounted without Auth; treat it as unauthenticated.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil || id.AccountID == "" {
		return nil, domain.ErrAuthInvalid
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the struct validator
// when one is installed.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
