package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scientifictooffi/itransition-4task/internal/api/metrics"
	"github.com/scientifictooffi/itransition-4task/internal/api/middleware"
	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

// AuthHandler handles the registration, login, logout, verification, and
// profile routes.
type AuthHandler struct {
	authService ports.AuthService
	sessions    *middleware.SessionManager
}

func NewAuthHandler(authService ports.AuthService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

type profileResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toProfile(u *domain.User) profileResponse {
	return profileResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// Register creates a new unverified account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return c.JSON(http.StatusConflict, messageResponse{Message: "Email already exists"})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Registration failed"})
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, messageResponse{
		Message: "Registered successfully. Verification email sent.",
	})
}

// Login authenticates the user and issues the session cookie.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
		case errors.Is(err, domain.ErrUserBlocked):
			metrics.LoginsTotal.WithLabelValues("blocked").Inc()
			return c.JSON(http.StatusForbidden, messageResponse{Message: "Account is blocked"})
		}
		return err
	}

	if err := h.sessions.Issue(c, user.ID); err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Login successful"})
}

// Logout destroys the caller's session.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// Verify consumes an email-verification token.
//
// @Summary      Verify an email address
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  messageResponse
// @Failure      404    {object}  messageResponse
// @Router       /api/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Missing token"})
	}

	if err := h.authService.Verify(c.Request().Context(), token); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusNotFound, messageResponse{Message: "Invalid token"})
		}
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Email verified"})
}

// Me returns the caller's own profile.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  profileResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.UserFrom(c)
	return c.JSON(http.StatusOK, map[string]profileResponse{"user": toProfile(user)})
}
