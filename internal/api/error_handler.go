package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - renders validation failures as 400 with a per-field message map.
//   - renders authentication failures as 401 with generic messages.
//   - logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verrs.Fields()}
	}
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: map[string]string{fe.Field: fe.Message}}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "No active account found with the given credentials."}
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, errorResponse{Error: "User account is disabled."}
	case errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized, errorResponse{Error: "Token has expired."}
	case errors.Is(err, domain.ErrAuthInvalid):
		return http.StatusUnauthorized, errorResponse{Error: "Token is invalid."}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "You do not have permission to perform this action."}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	case domain.IsValidationError(err):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
