package handler

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-management-api/internal/api/metrics"
	"github.com/usermgmt/user-management-api/internal/core/domain"
	"github.com/usermgmt/user-management-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	faults      ports.FaultReporter
}

func NewAuthHandler(authService ports.AuthService, faults ports.FaultReporter) *AuthHandler {
	return &AuthHandler{authService: authService, faults: faults}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// statusResponse is the registration envelope: {"status": ..., "message": ...}.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type loginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// Register creates a new identity and assigns the role given as query param.
//
// @Summary      Register a new user
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        role  query     string           true  "Pre-seeded role to assign"
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  statusResponse
// @Failure      400   {object}  statusResponse
// @Failure      409   {object}  statusResponse
// @Failure      422   {object}  statusResponse
// @Router       /api/Authentication/Register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "Error", Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "Error", Message: err.Error()})
	}
	role := c.QueryParam("role")

	_, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, statusResponse{Status: "Error", Message: err.Error()})
		case errors.Is(err, domain.ErrRoleNotFound):
			metrics.RegistrationsTotal.WithLabelValues("role_not_found").Inc()
			return c.JSON(http.StatusUnprocessableEntity, statusResponse{Status: "Error", Message: "this role does not exist"})
		case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrValidation):
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return c.JSON(http.StatusConflict, statusResponse{Status: "Error", Message: err.Error()})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, statusResponse{Status: "Success", Message: "user created successfully"})
}

// Login verifies a credential pair and returns a signed bearer token.
//
// @Summary      Login
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   "invalid credentials, empty body"
// @Failure      500   {object}  statusResponse
// @Router       /api/Authentication/Login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	start := time.Now()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
		return c.NoContent(http.StatusUnauthorized)
	}

	token, expiresAt, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// Deliberately empty body: no hint whether the username exists.
			metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
			metrics.LoginDuration.WithLabelValues("unauthorized").Observe(time.Since(start).Seconds())
			return c.NoContent(http.StatusUnauthorized)
		}
		if h.faults != nil {
			h.faults.Report(err)
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		metrics.LoginDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return c.JSON(http.StatusInternalServerError, statusResponse{
			Status:  "Error",
			Message: "an error occurred while processing the request",
		})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.LoginDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	return c.JSON(http.StatusOK, loginResponse{Token: token, Expiration: expiresAt})
}

// Test is an unprotected sample endpoint.
//
// @Summary      Unprotected sample
// @Tags         authentication
// @Success      200  {string}  string
// @Router       /api/Authentication/Test [get]
func (h *AuthHandler) Test(c echo.Context) error {
	return c.String(http.StatusOK, "1234")
}

// RandomNumber is a protected sample endpoint returning a random 7-digit
// number.
//
// @Summary      Protected sample
// @Tags         authentication
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]string
// @Router       /api/Authentication/RandomNumber [get]
func (h *AuthHandler) RandomNumber(c echo.Context) error {
	n := 1111111 + rand.IntN(9999999-1111111)
	return c.String(http.StatusOK, strconv.Itoa(n))
}
