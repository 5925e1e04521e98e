package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/handler"
	"github.com/gitat/party-rental-api/internal/middleware"
	"github.com/gitat/party-rental-api/internal/model"
)

// RegisterAdmin registers the admin-only user management routes. The
// verb-in-path naming is what the existing frontend calls.
func RegisterAdmin(e *echo.Echo, h *handler.AdminUserHandler, jwtSecret string) {
	g := e.Group("/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin))

	g.GET("/get-users", h.ListUsers)
	g.POST("/search-user", h.SearchUser)
	g.POST("/post-user", h.PostUser)
	g.PUT("/put-user", h.PutUser)
	g.POST("/delete-user", h.DeleteUser)
}
