package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/auth-service/internal/api/metrics"
	"github.com/taskflow/auth-service/internal/core/ports"
)

type ProfileHandler struct {
	authService ports.AuthService
}

func NewProfileHandler(authService ports.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Get returns the caller's profile.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	account, err := h.authService.Profile(c.Request().Context(), id.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(account))
}

// Put replaces the caller's profile. Email is required.
//
// @Summary      Replace profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profilePutRequest  true  "Profile"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Router       /auth/profile [put]
func (h *ProfileHandler) Put(c echo.Context) error {
	var req profilePutRequest
	return h.update(c, &req, func() ports.ProfileInput {
		return ports.ProfileInput{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	})
}

// Patch updates only the supplied profile fields.
//
// @Summary      Update profile fields
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profilePatchRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Router       /auth/profile [patch]
func (h *ProfileHandler) Patch(c echo.Context) error {
	var req profilePatchRequest
	return h.update(c, &req, func() ports.ProfileInput {
		return ports.ProfileInput{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	})
}

func (h *ProfileHandler) update(c echo.Context, req any, input func() ports.ProfileInput) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := bindAndValidate(c, req); err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}

	account, err := h.authService.UpdateProfile(c.Request().Context(), id.AccountID, input())
	metrics.ProfileUpdatesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(account))
}
