package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/mayankmishra0403/printhub/internal/config"
	"github.com/mayankmishra0403/printhub/internal/infra/identity"
	"github.com/mayankmishra0403/printhub/internal/middleware"
	"github.com/mayankmishra0403/printhub/internal/repository"
	"github.com/mayankmishra0403/printhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	stateCookieName = "printhub_oauth_state"
	stateTTL        = 10 * time.Minute
)

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	redirectURL  string // where the browser lands after login
	cookieSecure bool
}

func NewAuthHandler(uc *usecase.AuthUsecase, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		redirectURL:  cfg.FEURL,
		cookieSecure: cfg.IsProd(),
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/auth")
	g.GET("/login", h.login)
	g.GET("/callback", h.callback)
	g.POST("/logout", h.logout)
	g.GET("/me", h.me, middleware.AuthJWT(cfg), middleware.FreshRoleGuard(userRepo))
}

func (h *AuthHandler) login(c echo.Context) error {
	state, err := identity.NewState()
	if err != nil {
		return writeError(c, err)
	}
	url, err := h.uc.LoginURL(state)
	if err != nil {
		return writeError(c, err)
	}

	h.setCookie(c, stateCookieName, state, time.Now().Add(stateTTL))
	return c.Redirect(http.StatusFound, url)
}

func (h *AuthHandler) callback(c echo.Context) error {
	ck, err := c.Cookie(stateCookieName)
	state := c.QueryParam("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(ck.Value), []byte(state)) != 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid state"})
	}
	h.clearCookie(c, stateCookieName)

	out, err := h.uc.Callback(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return writeError(c, err)
	}

	h.setCookie(c, middleware.SessionCookieName, out.Token, out.ExpiresAt)
	return c.Redirect(http.StatusFound, h.redirectURL)
}

func (h *AuthHandler) logout(c echo.Context) error {
	h.clearCookie(c, middleware.SessionCookieName)
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
