package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/handler"
	"github.com/gitat/party-rental-api/internal/middleware"
	"github.com/gitat/party-rental-api/internal/model"
)

// RegisterInventory registers the admin-only inventory routes. Extra
// middleware (response cache for the listings) applies to the whole
// group; writes bust nothing, entries simply age out with the TTL.
func RegisterInventory(e *echo.Echo, h *handler.InventoryHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/api/inventory",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin))
	g.Use(extra...)

	g.GET("/general", h.ListGeneral)
	g.POST("/general/items", h.CreateItem)
	g.PATCH("/general/items/:id", h.UpdateItem)
	g.PATCH("/general/items/:id/stock", h.AdjustStock)

	g.GET("/salon/:id", h.ListRoomInventory)
	g.PATCH("/salon/:salonId/items/:itemId/stock", h.AdjustRoomStock)
}
