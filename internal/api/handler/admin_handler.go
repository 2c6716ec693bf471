package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

// AdminHandler serves staff-only account management.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// Provision creates an account on behalf of a staff member.
//
// @Summary      Provision an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      provisionRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/accounts [post]
func (h *AdminHandler) Provision(c echo.Context) error {
	var req provisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.authService.Provision(c.Request().Context(), ports.ProvisionInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Privileged: req.Privileged,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// SetActive activates or deactivates an account.
//
// @Summary      Set account active flag
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Account ID"
// @Param        body  body      setActiveRequest  true  "Active flag"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/accounts/{id} [patch]
func (h *AdminHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.IsActive == nil {
		return domain.NewFieldError("is_active", domain.ErrFieldRequired, "This field is required.")
	}

	account, err := h.authService.SetActive(c.Request().Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}
