package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gitat/party-rental-api/internal/model"
)

// ReservationRepo provides persistence for reservations, their item and
// salon line details and the listing queries the staff screens use.  The
// booking write is a single transaction owned by Create; everything else
// runs on the shared pool.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying pool for services that need ad-hoc reads.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ReservationRecord mirrors the RESERVACION columns written at booking
// time.  ID is populated by Create after the header insert.
type ReservationRecord struct {
	ID               uint64
	UsuarioID        uint64
	TipoReserva      string
	FechaInicio      time.Time
	FechaFin         time.Time
	TelefonoContacto string
	DireccionEvento  string
	Notas            *string
}

// LineItemRecord mirrors one DETALLE_RESERVA_ITEM row to insert.  The
// unit price is the snapshot taken by the pricing resolver; it is stored
// as-is and never re-read from inventory afterwards.
type LineItemRecord struct {
	InventarioGeneralID uint64
	Cantidad            uint32
	PrecioUnitario      float64
	DiasAlquiler        uint32
	Subtotal            float64
	EsExtra             bool
}

// RoomDetailRecord mirrors the single DETALLE_RESERVA_SALON row of a
// salon reservation.
type RoomDetailRecord struct {
	SalonID      uint64
	PrecioSalon  float64
	DiasAlquiler uint32
	Subtotal     float64
}

// Create persists a fully priced reservation as one all-or-nothing unit:
// header, item line details, stock decrements, optional salon detail and
// the initial pending payment.  On any failure everything rolls back and
// the original cause is returned; from the outside the reservation either
// does not exist or exists complete with stock already committed.
//
// Stock is taken with a conditional decrement so a concurrent booking
// that drained an item between validation and this write fails with
// ErrInsufficientStock instead of overselling.
func (r *ReservationRepo) Create(ctx context.Context, res *ReservationRecord, lines []LineItemRecord, room *RoomDetailRecord, metodoPago string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// 1. Header row; the generated id links every other insert.
	const headQ = `INSERT INTO RESERVACION
                   (usuario_id, tipo_reserva, fecha_inicio, fecha_fin, telefono_contacto, direccion_evento, notas)
                   VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, headQ,
		res.UsuarioID, res.TipoReserva, res.FechaInicio, res.FechaFin,
		res.TelefonoContacto, res.DireccionEvento, nullableStr(res.Notas))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// 2. Item line details in one statement, then the stock decrements.
	if len(lines) > 0 {
		query := `INSERT INTO DETALLE_RESERVA_ITEM
                  (reservacion_id, inventario_general_id, cantidad, precio_unitario, dias_alquiler, subtotal, es_extra)
                  VALUES `
		args := make([]interface{}, 0, len(lines)*7)
		for i, l := range lines {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?)"
			args = append(args, res.ID, l.InventarioGeneralID, l.Cantidad,
				l.PrecioUnitario, l.DiasAlquiler, l.Subtotal, l.EsExtra)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		// Sum quantities per item so duplicate lines decrement once.
		perItem := make(map[uint64]uint32)
		order := make([]uint64, 0, len(lines))
		for _, l := range lines {
			if _, seen := perItem[l.InventarioGeneralID]; !seen {
				order = append(order, l.InventarioGeneralID)
			}
			perItem[l.InventarioGeneralID] += l.Cantidad
		}
		const decQ = `UPDATE INVENTARIO_GENERAL
                      SET cantidad_disponible = cantidad_disponible - ?
                      WHERE id = ? AND cantidad_disponible >= ?`
		for _, itemID := range order {
			qty := perItem[itemID]
			dec, err := tx.ExecContext(ctx, decQ, qty, itemID, qty)
			if err != nil {
				return err
			}
			n, err := dec.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrInsufficientStock
			}
		}
	}

	// 3. Salon detail for room bookings.
	if room != nil {
		const roomQ = `INSERT INTO DETALLE_RESERVA_SALON
                       (reservacion_id, salon_id, precio_salon, dias_alquiler, subtotal)
                       VALUES (?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, roomQ,
			res.ID, room.SalonID, room.PrecioSalon, room.DiasAlquiler, room.Subtotal); err != nil {
			return err
		}
	}

	// 4. Initial payment with monto 0; staff validate and update it once
	// money actually arrives.  Computing the total at read time keeps a
	// forged amount in the request from ever mattering.
	const payQ = `INSERT INTO PAGO (reservacion_id, metodo_pago) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, payQ, res.ID, metodoPago); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByUser returns the reservations owned by one user for the
// "my reservations" screen.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.UserReservation, error) {
	const q = `SELECT id, tipo_reserva, fecha_inicio, fecha_fin, estado, direccion_evento
               FROM RESERVACION
               WHERE usuario_id = ?
               ORDER BY fecha_creacion DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.UserReservation, 0)
	for rows.Next() {
		var res model.UserReservation
		var inicio, fin time.Time
		if err := rows.Scan(&res.ID, &res.TipoReserva, &inicio, &fin, &res.Estado, &res.DireccionEvento); err != nil {
			return nil, err
		}
		res.FechaInicio = inicio.Format("2006-01-02")
		res.FechaFin = fin.Format("2006-01-02")
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// summaryQuery is the shared SELECT of every staff listing variant: the
// header joined with the owning customer, newest created first.  Each
// listing method appends its own single predicate; criteria are never
// combined (the staff screen applies one filter at a time).
const summaryQuery = `SELECT r.id, r.tipo_reserva, r.fecha_inicio, r.fecha_fin, r.estado,
                             u.nombre, u.email, r.fecha_creacion
                      FROM RESERVACION r
                      JOIN USUARIO u ON u.id = r.usuario_id`

func (r *ReservationRepo) listSummaries(ctx context.Context, query string, args ...interface{}) ([]model.ReservationSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ReservationSummary, 0)
	for rows.Next() {
		var s model.ReservationSummary
		var inicio, fin time.Time
		if err := rows.Scan(&s.ID, &s.TipoReserva, &inicio, &fin, &s.Estado,
			&s.Nombre, &s.Email, &s.FechaCreacion); err != nil {
			return nil, err
		}
		s.FechaInicio = inicio.Format("2006-01-02")
		s.FechaFin = fin.Format("2006-01-02")
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.ReservationSummary, error) {
	return r.listSummaries(ctx, summaryQuery+` ORDER BY r.fecha_creacion DESC`)
}

// ListBetweenDates returns reservations starting inside [from, to].
func (r *ReservationRepo) ListBetweenDates(ctx context.Context, from, to time.Time) ([]model.ReservationSummary, error) {
	return r.listSummaries(ctx,
		summaryQuery+` WHERE r.fecha_inicio BETWEEN ? AND ? ORDER BY r.fecha_creacion DESC`, from, to)
}

// ListByState returns reservations in one lifecycle state.
func (r *ReservationRepo) ListByState(ctx context.Context, estado string) ([]model.ReservationSummary, error) {
	return r.listSummaries(ctx,
		summaryQuery+` WHERE r.estado = ? ORDER BY r.fecha_creacion DESC`, estado)
}

// ListByKind returns reservations of one kind (privado or salon).
func (r *ReservationRepo) ListByKind(ctx context.Context, tipo string) ([]model.ReservationSummary, error) {
	return r.listSummaries(ctx,
		summaryQuery+` WHERE r.tipo_reserva = ? ORDER BY r.fecha_creacion DESC`, tipo)
}

// ListByCustomer returns reservations whose owner's name contains the
// given substring.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, nombre string) ([]model.ReservationSummary, error) {
	return r.listSummaries(ctx,
		summaryQuery+` WHERE u.nombre LIKE ? ORDER BY r.fecha_creacion DESC`, "%"+nombre+"%")
}

// ListToValidate returns reservations whose rental period already ended
// but that staff have not yet marked finalized.
func (r *ReservationRepo) ListToValidate(ctx context.Context) ([]model.ReservationSummary, error) {
	return r.listSummaries(ctx,
		summaryQuery+` WHERE r.fecha_fin < CURDATE() AND r.estado != 'finalizado' ORDER BY r.fecha_creacion DESC`)
}

// ClientHeader is the header of the client-facing detail view.  It hides
// staff assignment and customer identity fields; the caller already is
// the customer.
type ClientHeader struct {
	NumeroReserva    uint64    `json:"numero_reserva"`
	UsuarioID        uint64    `json:"-"`
	FechaInicio      string    `json:"fecha_inicio"`
	FechaFin         string    `json:"fecha_fin"`
	Estado           string    `json:"estado"`
	DireccionEvento  string    `json:"direccion_evento"`
	TelefonoContacto string    `json:"telefono_contacto"`
	Notas            *string   `json:"notas,omitempty"`
	FechaCreacion    time.Time `json:"fecha_creacion"`
	NombreSalon      *string   `json:"nombre_salon,omitempty"`
	CostoSalon       *float64  `json:"costo_salon,omitempty"`
}

// StaffHeader is the header of the staff-facing detail view, which adds
// the customer's identity and the assigned employee.
type StaffHeader struct {
	ID               uint64    `json:"id"`
	FechaInicio      string    `json:"fecha_inicio"`
	FechaFin         string    `json:"fecha_fin"`
	Estado           string    `json:"estado"`
	DireccionEvento  string    `json:"direccion_evento"`
	TelefonoContacto string    `json:"telefono_contacto"`
	Notas            *string   `json:"notas,omitempty"`
	FechaCreacion    time.Time `json:"fecha_creacion"`
	NombreCliente    string    `json:"nombre_cliente"`
	EmailCliente     string    `json:"email_cliente"`
	NombreEmpleado   *string   `json:"nombre_empleado,omitempty"`
	NombreSalon      *string   `json:"nombre_salon,omitempty"`
	CostoSalon       *float64  `json:"costo_salon,omitempty"`
}

// GetClientHeader loads the client-facing header of one reservation with
// the salon name and captured salon price left-joined in.  sql.ErrNoRows
// when the reservation does not exist.
func (r *ReservationRepo) GetClientHeader(ctx context.Context, id uint64) (*ClientHeader, error) {
	const q = `SELECT r.id, r.usuario_id, r.fecha_inicio, r.fecha_fin, r.estado, r.direccion_evento,
                      r.telefono_contacto, r.notas, r.fecha_creacion,
                      s.nombre, drs.precio_salon
               FROM RESERVACION r
               LEFT JOIN DETALLE_RESERVA_SALON drs ON r.id = drs.reservacion_id
               LEFT JOIN SALON s ON drs.salon_id = s.id
               WHERE r.id = ?`
	var h ClientHeader
	var inicio, fin time.Time
	var notas, salon sql.NullString
	var costo sql.NullFloat64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.NumeroReserva, &h.UsuarioID, &inicio, &fin, &h.Estado, &h.DireccionEvento,
		&h.TelefonoContacto, &notas, &h.FechaCreacion, &salon, &costo)
	if err != nil {
		return nil, err
	}
	h.FechaInicio = inicio.Format("2006-01-02")
	h.FechaFin = fin.Format("2006-01-02")
	if notas.Valid {
		v := notas.String
		h.Notas = &v
	}
	if salon.Valid {
		v := salon.String
		h.NombreSalon = &v
	}
	if costo.Valid {
		v := costo.Float64
		h.CostoSalon = &v
	}
	return &h, nil
}

// GetStaffHeader loads the staff-facing header: the client header plus
// customer name/email and the assigned employee's name.
func (r *ReservationRepo) GetStaffHeader(ctx context.Context, id uint64) (*StaffHeader, error) {
	const q = `SELECT r.id, r.fecha_inicio, r.fecha_fin, r.estado, r.direccion_evento,
                      r.telefono_contacto, r.notas, r.fecha_creacion,
                      u.nombre, u.email, e.nombre,
                      s.nombre, drs.precio_salon
               FROM RESERVACION r
               JOIN USUARIO u ON r.usuario_id = u.id
               LEFT JOIN USUARIO e ON r.empleado_id = e.id
               LEFT JOIN DETALLE_RESERVA_SALON drs ON r.id = drs.reservacion_id
               LEFT JOIN SALON s ON drs.salon_id = s.id
               WHERE r.id = ?`
	var h StaffHeader
	var inicio, fin time.Time
	var notas, empleado, salon sql.NullString
	var costo sql.NullFloat64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &inicio, &fin, &h.Estado, &h.DireccionEvento,
		&h.TelefonoContacto, &notas, &h.FechaCreacion,
		&h.NombreCliente, &h.EmailCliente, &empleado, &salon, &costo)
	if err != nil {
		return nil, err
	}
	h.FechaInicio = inicio.Format("2006-01-02")
	h.FechaFin = fin.Format("2006-01-02")
	if notas.Valid {
		v := notas.String
		h.Notas = &v
	}
	if empleado.Valid {
		v := empleado.String
		h.NombreEmpleado = &v
	}
	if salon.Valid {
		v := salon.String
		h.NombreSalon = &v
	}
	if costo.Valid {
		v := costo.Float64
		h.CostoSalon = &v
	}
	return &h, nil
}

// ListClientItems returns the item lines of one reservation joined with
// the item names, the shape the client detail view shows.
func (r *ReservationRepo) ListClientItems(ctx context.Context, id uint64) ([]model.LineItem, error) {
	const q = `SELECT dri.cantidad, ig.nombre_item, dri.precio_unitario,
                      dri.subtotal, dri.dias_alquiler, dri.es_extra
               FROM DETALLE_RESERVA_ITEM dri
               JOIN INVENTARIO_GENERAL ig ON dri.inventario_general_id = ig.id
               WHERE dri.reservacion_id = ?`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.LineItem, 0)
	for rows.Next() {
		var li model.LineItem
		if err := rows.Scan(&li.Cantidad, &li.NombreItem, &li.PrecioUnitario,
			&li.Subtotal, &li.DiasAlquiler, &li.EsExtra); err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListStaffItems returns the item lines with line ids and the product
// category, the shape the staff detail view shows.
func (r *ReservationRepo) ListStaffItems(ctx context.Context, id uint64) ([]model.LineItem, error) {
	const q = `SELECT dri.id, dri.cantidad, dri.precio_unitario, dri.subtotal,
                      dri.es_extra, dri.dias_alquiler, ig.nombre_item, cat.nombre
               FROM DETALLE_RESERVA_ITEM dri
               JOIN INVENTARIO_GENERAL ig ON dri.inventario_general_id = ig.id
               JOIN CATEGORIA_PRODUCTO cat ON ig.categoria_id = cat.id
               WHERE dri.reservacion_id = ?`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.LineItem, 0)
	for rows.Next() {
		var li model.LineItem
		if err := rows.Scan(&li.ID, &li.Cantidad, &li.PrecioUnitario, &li.Subtotal,
			&li.EsExtra, &li.DiasAlquiler, &li.NombreItem, &li.Categoria); err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ContactInfo is the slice of the header the PATCH endpoint may change,
// read back so only differing fields are written.
type ContactInfo struct {
	ID               uint64
	TelefonoContacto string
	Notas            *string
	EmpleadoID       *uint64
	Estado           string
}

// GetContactInfo loads the patchable fields of one reservation.
// sql.ErrNoRows when the reservation does not exist.
func (r *ReservationRepo) GetContactInfo(ctx context.Context, id uint64) (ContactInfo, error) {
	const q = `SELECT id, telefono_contacto, notas, empleado_id, estado FROM RESERVACION WHERE id = ?`
	var info ContactInfo
	var notas sql.NullString
	var empleado sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&info.ID, &info.TelefonoContacto, &notas, &empleado, &info.Estado)
	if err != nil {
		return info, err
	}
	if notas.Valid {
		v := notas.String
		info.Notas = &v
	}
	if empleado.Valid {
		v := uint64(empleado.Int64)
		info.EmpleadoID = &v
	}
	return info, nil
}

// UpdateInfo writes the assignments present in the patch.  Column names
// are fixed here; the handler decides which fields actually changed.  An
// empty patch returns ErrNoChanges.
func (r *ReservationRepo) UpdateInfo(ctx context.Context, id uint64, p model.ReservationPatch) error {
	if p.Empty() {
		return ErrNoChanges
	}
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if p.TelefonoContacto != nil {
		sets = append(sets, "telefono_contacto = ?")
		args = append(args, *p.TelefonoContacto)
	}
	if p.Notas != nil {
		sets = append(sets, "notas = ?")
		args = append(args, *p.Notas)
	}
	if p.EmpleadoID != nil {
		sets = append(sets, "empleado_id = ?")
		args = append(args, *p.EmpleadoID)
	}
	if p.Estado != nil {
		sets = append(sets, "estado = ?")
		args = append(args, *p.Estado)
	}
	args = append(args, id)
	query := "UPDATE RESERVACION SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
