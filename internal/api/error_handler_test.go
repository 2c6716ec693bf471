package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_Validation(t *testing.T) {
	err := domain.ValidationErrors{
		domain.NewFieldError("email", domain.ErrInvalidEmail, "Enter a valid email address."),
		domain.NewFieldError("password", domain.ErrWeakPassword, "Password must contain at least one number."),
	}

	code, body := renderError(t, fmt.Errorf("register: %w", err))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Fields["email"] != "Enter a valid email address." || body.Fields["password"] == "" {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}

func TestHTTPErrorHandler_SingleFieldError(t *testing.T) {
	code, body := renderError(t, domain.NewFieldError("email", domain.ErrDuplicateAccount, "A user with that email already exists."))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Fields["email"] != "A user with that email already exists." {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}

func TestHTTPErrorHandler_AuthErrors(t *testing.T) {
	for _, err := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrAccountInactive,
		domain.ErrAuthExpired,
		domain.ErrAuthInvalid,
	} {
		code, body := renderError(t, err)
		if code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %d", err, code)
		}
		if body.Error == "" || body.Fields != nil {
			t.Fatalf("%v: unexpected body %+v", err, body)
		}
	}
}

func TestHTTPErrorHandler_Unexpected(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, _ := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
