// Package router wires the HTTP routes to their handlers and middleware.
// Routes are grouped by area: auth, reservations, inventory and admin,
// each registered by its own function so main stays a plain wiring list.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/handler"
	"github.com/gitat/party-rental-api/internal/middleware"
)

// RegisterRoutes registers the routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration, login, session verification,
// logout and profile routes. Register and login are the only endpoints
// reachable without a session cookie.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/api", middleware.JWTAuth(jwtSecret))
	auth.GET("/verification", a.Session)
	auth.POST("/verification/logout", a.Logout)
	auth.PATCH("/auth/profile", a.UpdateProfile)
}
