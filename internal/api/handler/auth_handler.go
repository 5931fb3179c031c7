package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/techone/pos-api/internal/api/metrics"
	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

// CookieSettings are the refresh-cookie attributes, read from configuration
// once at startup.
type CookieSettings struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// AuthHandler exposes the login/refresh/logout endpoints.
type AuthHandler struct {
	auth   ports.AuthService
	cookie CookieSettings
}

func NewAuthHandler(auth ports.AuthService, cookie CookieSettings) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "refresh_token"
	}
	if cookie.Path == "" {
		cookie.Path = "/auth"
	}
	return &AuthHandler{auth: auth, cookie: cookie}
}

// Login authenticates the configured credential and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	pair, err := h.auth.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshTTL)

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   pair.ExpiresIn,
	})
}

// Refresh rotates the refresh cookie and returns a new access token.
//
// @Summary      Refresh the session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(h.cookie.Name)
	if err != nil || cookie.Value == "" {
		return domain.ErrUnauthenticated
	}

	pair, err := h.auth.Refresh(c.Request().Context(), cookie.Value, c.RealIP())
	if err != nil {
		metrics.TokenRotationsTotal.WithLabelValues(rotationResult(err)).Inc()
		if errors.Is(err, domain.ErrTokenReused) {
			// The family is gone; make sure the client stops replaying it.
			h.clearRefreshCookie(c)
		}
		return err
	}

	metrics.TokenRotationsTotal.WithLabelValues("success").Inc()
	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshTTL)

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   pair.ExpiresIn,
	})
}

// Logout clears the refresh cookie and revokes the rotation record.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		_ = h.auth.Logout(c.Request().Context(), cookie.Value)
	}
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     h.cookie.Path,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	})
}

func rotationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenReused):
		return "reused"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return "invalid"
	}
}
