package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/repository"
)

// InventoryHandler bundles dependencies for the admin inventory endpoints.
type InventoryHandler struct {
	Inventory *repository.InventoryRepo
}

func NewInventoryHandler(inv *repository.InventoryRepo) *InventoryHandler {
	return &InventoryHandler{Inventory: inv}
}

// ----- DTOs -----

type createItemReq struct {
	NombreItem     string   `json:"nombre_item"`
	CategoriaID    uint64   `json:"categoria_id"`
	TipoID         *uint64  `json:"tipo_id"`
	ColorID        *uint64  `json:"color_id"`
	PrecioAlquiler *float64 `json:"precio_alquiler"`
	Descripcion    *string  `json:"descripcion"`
}

type patchItemReq struct {
	NombreItem     *string  `json:"nombre_item"`
	CategoriaID    *uint64  `json:"categoria_id"`
	TipoID         *uint64  `json:"tipo_id"`
	ColorID        *uint64  `json:"color_id"`
	PrecioAlquiler *float64 `json:"precio_alquiler"`
	Descripcion    *string  `json:"descripcion"`
}

type stockAdjustReq struct {
	DeltaTotal      int32 `json:"delta_total"`
	DeltaDisponible int32 `json:"delta_disponible"`
}

type roomStockAdjustReq struct {
	Delta int32 `json:"delta"`
}

// ListGeneral returns the full general inventory with category, type and
// color names joined in.
func (h *InventoryHandler) ListGeneral(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Inventory.ListGeneral(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo obtener el inventario", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// CreateItem registers a new inventory item. Stock starts at zero and is
// added afterwards through the stock endpoint.
func (h *InventoryHandler) CreateItem(c echo.Context) error {
	var req createItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	req.NombreItem = strings.TrimSpace(req.NombreItem)
	if req.NombreItem == "" || req.CategoriaID == 0 || req.PrecioAlquiler == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "nombre_item, categoria_id y precio_alquiler son obligatorios"})
	}
	if *req.PrecioAlquiler < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "precio_alquiler no puede ser negativo"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Inventory.CreateItem(ctx, req.CategoriaID, req.TipoID, req.ColorID, *req.PrecioAlquiler, req.NombreItem, req.Descripcion)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo crear el articulo", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "articulo creado"})
}

// UpdateItem patches the editable columns of one item, writing only the
// fields that differ from the stored row.
func (h *InventoryHandler) UpdateItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id invalido"})
	}
	var req patchItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	current, err := h.Inventory.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "articulo no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar el articulo", "error": err.Error()})
	}

	patch := diffItem(current, req)
	if patch.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no hay cambios que aplicar"})
	}
	if err := h.Inventory.UpdateItem(ctx, id, patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar el articulo", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "articulo actualizado"})
}

func diffItem(cur model.InventoryItem, req patchItemReq) model.ItemPatch {
	var p model.ItemPatch
	if req.NombreItem != nil && *req.NombreItem != cur.NombreItem {
		p.NombreItem = req.NombreItem
	}
	if req.CategoriaID != nil && *req.CategoriaID != cur.CategoriaID {
		p.CategoriaID = req.CategoriaID
	}
	if req.TipoID != nil && (cur.TipoID == nil || *req.TipoID != *cur.TipoID) {
		p.TipoID = req.TipoID
	}
	if req.ColorID != nil && (cur.ColorID == nil || *req.ColorID != *cur.ColorID) {
		p.ColorID = req.ColorID
	}
	if req.PrecioAlquiler != nil && *req.PrecioAlquiler != cur.PrecioAlquiler {
		p.PrecioAlquiler = req.PrecioAlquiler
	}
	if req.Descripcion != nil && (cur.Descripcion == nil || *req.Descripcion != *cur.Descripcion) {
		p.Descripcion = req.Descripcion
	}
	return p
}

// AdjustStock applies deltas to an item's total and available counts.
func (h *InventoryHandler) AdjustStock(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id invalido"})
	}
	var req stockAdjustReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	if req.DeltaTotal == 0 && req.DeltaDisponible == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no hay cambios que aplicar"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Inventory.AdjustStock(ctx, id, req.DeltaTotal, req.DeltaDisponible); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "articulo no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo ajustar el stock", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "stock actualizado"})
}

// ListRoomInventory returns the inventory assigned to one salon.
func (h *InventoryHandler) ListRoomInventory(c echo.Context) error {
	salonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id invalido"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	rows, err := h.Inventory.ListRoomInventory(ctx, salonID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo obtener el inventario del salon", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// AdjustRoomStock applies a delta to one item's stock inside one salon.
func (h *InventoryHandler) AdjustRoomStock(c echo.Context) error {
	salonID, err := strconv.ParseUint(c.Param("salonId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "salonId invalido"})
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "itemId invalido"})
	}
	var req roomStockAdjustReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	if req.Delta == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no hay cambios que aplicar"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Inventory.AdjustRoomStock(ctx, salonID, itemID, req.Delta); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "el articulo no esta asignado a ese salon"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo ajustar el stock del salon", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "stock del salon actualizado"})
}
