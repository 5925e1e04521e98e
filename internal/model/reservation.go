package model

import "time"

// Reservation kinds stored in RESERVACION.tipo_reserva.  A private event
// happens off-site and rents items only; a salon booking rents one of the
// business' own rooms and may add extra items on top.
const (
	KindPrivate = "privado"
	KindSalon   = "salon"
)

// Reservation states stored in RESERVACION.estado.
const (
	StatePending   = "pendiente"
	StateConfirmed = "confirmado"
	StateFinalized = "finalizado"
	StateCancelled = "cancelado"
)

// Reservation mirrors the RESERVACION header row.  Monetary totals are
// never stored on the header; they are always derived from the line
// details and payments at read time.
type Reservation struct {
	ID               uint64    `json:"id"`
	UsuarioID        uint64    `json:"usuario_id"`
	EmpleadoID       *uint64   `json:"empleado_id,omitempty"`
	TipoReserva      string    `json:"tipo_reserva"`
	FechaInicio      time.Time `json:"fecha_inicio"`
	FechaFin         time.Time `json:"fecha_fin"`
	TelefonoContacto string    `json:"telefono_contacto"`
	DireccionEvento  string    `json:"direccion_evento"`
	Notas            *string   `json:"notas,omitempty"`
	Estado           string    `json:"estado"`
	FechaCreacion    time.Time `json:"fecha_creacion"`
}

// ReservationSummary is one row of the staff listing: the header joined
// with the owning customer's name and email.
type ReservationSummary struct {
	ID            uint64    `json:"id"`
	TipoReserva   string    `json:"tipo_reserva"`
	FechaInicio   string    `json:"fecha_inicio"`
	FechaFin      string    `json:"fecha_fin"`
	Estado        string    `json:"estado"`
	Nombre        string    `json:"nombre"`
	Email         string    `json:"email"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// UserReservation is one row of a customer's own listing.  It exposes
// only the fields the client frontend tabulates.
type UserReservation struct {
	ID              uint64 `json:"id"`
	TipoReserva     string `json:"tipo_reserva"`
	FechaInicio     string `json:"fecha_inicio"`
	FechaFin        string `json:"fecha_fin"`
	Estado          string `json:"estado"`
	DireccionEvento string `json:"direccion_evento"`
}

// ReservationPatch carries the optional fields of PATCH
// /reservation/:id/info.  Nil fields are left untouched; the repository
// emits assignments only for the fields present.
type ReservationPatch struct {
	TelefonoContacto *string
	Notas            *string
	EmpleadoID       *uint64
	Estado           *string
}

// Empty reports whether the patch carries no assignments.
func (p ReservationPatch) Empty() bool {
	return p.TelefonoContacto == nil && p.Notas == nil && p.EmpleadoID == nil && p.Estado == nil
}

// LineItem is one DETALLE_RESERVA_ITEM row joined with the item name (and
// category for the staff view).  PrecioUnitario is the price captured at
// booking time; it never tracks later inventory price changes.
type LineItem struct {
	ID             uint64  `json:"id,omitempty"`
	NombreItem     string  `json:"nombre_item"`
	Categoria      string  `json:"categoria,omitempty"`
	Cantidad       uint32  `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
	DiasAlquiler   uint32  `json:"dias_alquiler"`
	Subtotal       float64 `json:"subtotal"`
	EsExtra        bool    `json:"es_extra"`
}
