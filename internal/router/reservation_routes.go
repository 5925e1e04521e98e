package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/handler"
	"github.com/gitat/party-rental-api/internal/middleware"
	"github.com/gitat/party-rental-api/internal/model"
)

// RegisterReservations registers the reservation routes. Every route
// requires a session; the staff listing, staff detail and header patch
// additionally require the employee or admin role. Extra middleware
// (rate limiting, caching) applies to the whole group.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/api/reservation", middleware.JWTAuth(jwtSecret))
	g.Use(extra...)

	g.POST("", h.Create)
	g.GET("/my-reservations", h.MyReservations)
	g.GET("/my-reservations/:id", h.ClientDetail)
	g.GET("/salons", h.GetSalons)

	staff := middleware.RequireRole(model.RoleEmployee, model.RoleAdmin)
	g.GET("", h.StaffList, staff)
	g.GET("/:id", h.StaffDetail, staff)
	g.PATCH("/:id/info", h.UpdateInfo, staff)
}
