package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// user holds one of the given roles. It assumes JWTAuth already stored
// the role in the context under "rol"; a missing or disallowed role is
// rejected with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rol, ok := c.Get("rol").(string)
			if !ok || !allowed[rol] {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "acceso denegado"})
			}
			return next(c)
		}
	}
}
