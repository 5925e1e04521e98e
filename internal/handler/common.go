// Package handler contains the Echo HTTP handlers of the API.  Handlers
// validate and bind requests, call into repositories and services, and
// translate domain errors into HTTP responses with Spanish user-facing
// messages, which is what the frontend displays verbatim.
package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every handler-initiated database call.
const dbTimeout = 5 * time.Second

// reqContext derives the per-request context with the standard timeout.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUserID returns the authenticated user's id placed in the
// context by the session middleware; zero when absent.
func currentUserID(c echo.Context) uint64 {
	id, _ := c.Get("user_id").(uint64)
	return id
}

// currentUserName returns the authenticated user's display name.
func currentUserName(c echo.Context) string {
	n, _ := c.Get("nombre").(string)
	return n
}
