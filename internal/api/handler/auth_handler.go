package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/synapsecare/health-risk-api/internal/api/metrics"
	"github.com/synapsecare/health-risk-api/internal/api/middleware"
	"github.com/synapsecare/health-risk-api/internal/core/domain"
	"github.com/synapsecare/health-risk-api/internal/core/ports"
)

const (
	msgRegistered = "Registration successful! You can now log in."
	msgLoggedIn   = "Login successful!"
	msgLoggedOut  = "Logout successful"
	msgUpdated    = "User updated successfully"
	msgDeactivate = "Account deactivated"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      *middleware.SessionCookie
}

func NewAuthHandler(authService ports.AuthService, cookie *middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register creates a new user account. No session is started.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	id, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AgreeToTerms:    req.AgreeToTerms,
	})
	metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: msgRegistered,
		UserID:  id,
	})
}

// Login authenticates the credentials and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:        req.Email,
		Password:     req.Password,
		RememberMe:   req.RememberMe,
		CurrentToken: sessionToken(c),
	})
	metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	value, err := h.cookie.Encode(res.Token, res.ExpiresAt)
	if err != nil {
		return err
	}
	h.cookie.Write(c, value, res.ExpiresAt, res.Permanent)
	metrics.SessionsIssuedTotal.WithLabelValues(strconv.FormatBool(res.Permanent)).Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: msgLoggedIn,
		User:    toUserResponse(res.User, false),
	})
}

// Logout ends the current session, if any.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.authService.Logout(c.Request().Context(), sessionToken(c))
	h.cookie.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: msgLoggedOut})
}

// GetProfile returns the authenticated user's profile.
//
// @Summary      Get profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	user, err := h.authService.GetProfile(c.Request().Context(), sessionToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Success: true, User: toUserResponse(user, true)})
}

// UpdateProfile edits any of first_name, last_name, email and phone.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	token := sessionToken(c)
	if token == "" {
		return domain.ErrUnauthenticated
	}

	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	err := h.authService.UpdateProfile(c.Request().Context(), token, ports.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: msgUpdated})
}

// Deactivate soft-deletes the authenticated account and ends the session.
//
// @Summary      Deactivate account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /auth/profile [delete]
func (h *AuthHandler) Deactivate(c echo.Context) error {
	if err := h.authService.Deactivate(c.Request().Context(), sessionToken(c)); err != nil {
		return err
	}
	h.cookie.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: msgDeactivate})
}

// CheckAuth reports whether the caller holds a live session.
//
// @Summary      Check authentication
// @Tags         auth
// @Produce      json
// @Success      200  {object}  checkAuthResponse
// @Router       /auth/check-auth [get]
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	user, ok := h.authService.CheckAuth(c.Request().Context(), sessionToken(c))
	if !ok {
		return c.JSON(http.StatusOK, checkAuthResponse{Success: true})
	}
	return c.JSON(http.StatusOK, checkAuthResponse{
		Success:       true,
		Authenticated: true,
		User:          toUserResponse(user, true),
	})
}

func registrationResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "created"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, domain.ErrDeactivated):
		return "deactivated"
	default:
		return "error"
	}
}
