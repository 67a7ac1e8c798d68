package middleware

import (
	"net/http"

	"github.com/mayankmishra0403/printhub/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AdminRoleGuard lets only admins through. Run it after FreshRoleGuard so the
// role comes from the users table rather than the token.
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
