package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/pricing"
	"github.com/gitat/party-rental-api/internal/queue"
	"github.com/gitat/party-rental-api/internal/repository"
	"github.com/gitat/party-rental-api/internal/service"
)

// ReservationHandler bundles dependencies for the reservation endpoints.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	Resolver     *pricing.Resolver
	Details      *service.DetailService
}

func NewReservationHandler(res *repository.ReservationRepo, rooms *repository.RoomRepo, pr *pricing.Resolver, det *service.DetailService) *ReservationHandler {
	return &ReservationHandler{Reservations: res, Rooms: rooms, Resolver: pr, Details: det}
}

// ----- DTOs -----

type createReservationReq struct {
	TipoReserva      string                `json:"tipo_reserva"`
	FechaInicio      string                `json:"fecha_inicio"`
	FechaFin         string                `json:"fecha_fin"`
	TelefonoContacto string                `json:"telefono_contacto"`
	DireccionEvento  string                `json:"direccion_evento"`
	Notas            *string               `json:"notas"`
	Items            []pricing.ItemRequest `json:"items"`
	MetodoPago       string                `json:"metodo_pago"`
	SalonID          *uint64               `json:"salon_id"`
}

type updateInfoReq struct {
	TelefonoContacto *string `json:"telefono_contacto"`
	Notas            *string `json:"notas"`
	EmpleadoID       *uint64 `json:"empleado_id"`
	Estado           *string `json:"estado"`
}

const dateLayout = "2006-01-02"

// Create books a reservation: validate the shape, snapshot prices, then
// persist everything in one transaction. Prices always come from the
// database, never from the request, and the conditional stock decrement
// inside the transaction is what finally decides a race between two
// concurrent bookings of the same item.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}

	req.TipoReserva = strings.ToLower(strings.TrimSpace(req.TipoReserva))
	if req.TipoReserva != model.KindPrivate && req.TipoReserva != model.KindSalon {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "tipo_reserva debe ser 'privado' o 'salon'"})
	}
	if strings.TrimSpace(req.TelefonoContacto) == "" || strings.TrimSpace(req.DireccionEvento) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "telefono_contacto y direccion_evento son obligatorios"})
	}
	if strings.TrimSpace(req.MetodoPago) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "metodo_pago es obligatorio"})
	}
	inicio, err := time.Parse(dateLayout, req.FechaInicio)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "fecha_inicio invalida (formato YYYY-MM-DD)"})
	}
	fin, err := time.Parse(dateLayout, req.FechaFin)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "fecha_fin invalida (formato YYYY-MM-DD)"})
	}
	// Kind-specific shape: a private event rents items only, a salon
	// booking needs the salon and may add extras on top.
	if req.TipoReserva == model.KindPrivate && len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "una reserva privada requiere al menos un articulo"})
	}
	if req.TipoReserva == model.KindPrivate && req.SalonID != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "una reserva privada no puede incluir salon_id"})
	}
	if req.TipoReserva == model.KindSalon && req.SalonID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "una reserva de salon requiere salon_id"})
	}
	for _, it := range req.Items {
		if it.Cantidad == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cada articulo requiere cantidad mayor a cero"})
		}
	}

	days := pricing.RentalDays(inicio, fin)

	ctx, cancel := reqContext(c)
	defer cancel()

	lines, err := h.Resolver.PriceItems(ctx, req.TipoReserva, days, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "uno de los articulos no existe"})
		case errors.Is(err, repository.ErrInsufficientStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "stock insuficiente para uno de los articulos"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo crear la reservacion", "error": err.Error()})
	}

	var room *repository.RoomDetailRecord
	if req.TipoReserva == model.KindSalon {
		room, err = h.Resolver.PriceRoom(ctx, *req.SalonID, days)
		if err != nil {
			if errors.Is(err, repository.ErrRoomNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "el salon no existe"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo crear la reservacion", "error": err.Error()})
		}
	}

	rec := repository.ReservationRecord{
		UsuarioID:        currentUserID(c),
		TipoReserva:      req.TipoReserva,
		FechaInicio:      inicio,
		FechaFin:         fin,
		TelefonoContacto: strings.TrimSpace(req.TelefonoContacto),
		DireccionEvento:  strings.TrimSpace(req.DireccionEvento),
		Notas:            req.Notas,
	}
	if err := h.Reservations.Create(ctx, &rec, lines, room, strings.TrimSpace(req.MetodoPago)); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "stock insuficiente para uno de los articulos"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo crear la reservacion", "error": err.Error()})
	}

	// Best effort; the booking already committed.
	go publishCreated(rec, lines, room, currentUserName(c))

	return c.JSON(http.StatusCreated, echo.Map{"message": "reservacion creada exitosamente"})
}

func publishCreated(rec repository.ReservationRecord, lines []repository.LineItemRecord, room *repository.RoomDetailRecord, userName string) {
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: rec.ID,
		UserID:        rec.UsuarioID,
		UserName:      userName,
		TipoReserva:   rec.TipoReserva,
		FechaInicio:   rec.FechaInicio.Format(dateLayout),
		FechaFin:      rec.FechaFin.Format(dateLayout),
		ItemCount:     len(lines),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if room != nil {
		id := room.SalonID
		ev.SalonID = &id
		total += room.Subtotal
	}
	ev.CostoReserva = total

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = service.PublishReservationCreated(ctx, ev)
}

// MyReservations lists the caller's own reservations. The owner id comes
// from the session, never from the request.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	out, err := h.Reservations.ListByUser(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudieron obtener las reservaciones", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// ClientDetail returns the customer-facing detail of one reservation.
func (h *ReservationHandler) ClientDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id invalido"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	d, err := h.Details.ClientDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo obtener la reservacion", "error": err.Error()})
	}
	if d == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservacion no encontrada"})
	}
	// Clients only see their own reservations.
	if d.UsuarioID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "acceso denegado"})
	}
	return c.JSON(http.StatusOK, d)
}

// StaffList dispatches the staff listing over exactly one criterion, in
// a fixed precedence: date range, estado, tipo, cliente, validar, all.
// Criteria are never combined.
func (h *ReservationHandler) StaffList(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	var (
		out []model.ReservationSummary
		err error
	)
	switch {
	case c.QueryParam("fecha_inicio") != "" && c.QueryParam("fecha_fin") != "":
		var from, to time.Time
		from, err = time.Parse(dateLayout, c.QueryParam("fecha_inicio"))
		if err == nil {
			to, err = time.Parse(dateLayout, c.QueryParam("fecha_fin"))
		}
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "fechas invalidas (formato YYYY-MM-DD)"})
		}
		out, err = h.Reservations.ListBetweenDates(ctx, from, to)
	case c.QueryParam("estado") != "":
		out, err = h.Reservations.ListByState(ctx, c.QueryParam("estado"))
	case c.QueryParam("tipo") != "":
		out, err = h.Reservations.ListByKind(ctx, c.QueryParam("tipo"))
	case c.QueryParam("cliente") != "":
		out, err = h.Reservations.ListByCustomer(ctx, c.QueryParam("cliente"))
	case c.QueryParam("validar") != "":
		out, err = h.Reservations.ListToValidate(ctx)
	default:
		out, err = h.Reservations.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudieron obtener las reservaciones", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// StaffDetail returns the staff-facing detail of one reservation.
func (h *ReservationHandler) StaffDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id invalido"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	d, err := h.Details.StaffDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo obtener la reservacion", "error": err.Error()})
	}
	if d == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservacion no encontrada"})
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateInfo patches the editable header fields of a reservation. The
// stored row is read first and only fields that actually differ are
// written; a patch that changes nothing is a 400.
func (h *ReservationHandler) UpdateInfo(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id invalido"})
	}
	var req updateInfoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	if req.Estado != nil {
		switch *req.Estado {
		case model.StatePending, model.StateConfirmed, model.StateFinalized, model.StateCancelled:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "estado invalido"})
		}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	current, err := h.Reservations.GetContactInfo(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservacion no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar la reservacion", "error": err.Error()})
	}

	patch := diffReservation(current, req)
	if patch.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no hay cambios que aplicar"})
	}
	if err := h.Reservations.UpdateInfo(ctx, id, patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar la reservacion", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservacion actualizada"})
}

// diffReservation keeps only the requested fields whose values differ
// from what is stored.
func diffReservation(cur repository.ContactInfo, req updateInfoReq) model.ReservationPatch {
	var p model.ReservationPatch
	if req.TelefonoContacto != nil && *req.TelefonoContacto != cur.TelefonoContacto {
		p.TelefonoContacto = req.TelefonoContacto
	}
	if req.Notas != nil && (cur.Notas == nil || *req.Notas != *cur.Notas) {
		p.Notas = req.Notas
	}
	if req.EmpleadoID != nil && (cur.EmpleadoID == nil || *req.EmpleadoID != *cur.EmpleadoID) {
		p.EmpleadoID = req.EmpleadoID
	}
	if req.Estado != nil && *req.Estado != cur.Estado {
		p.Estado = req.Estado
	}
	return p
}

// GetSalons lists the active rooms available for booking.
func (h *ReservationHandler) GetSalons(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	rooms, err := h.Rooms.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudieron obtener los salones", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, rooms)
}
