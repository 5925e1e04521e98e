package repository

import (
	"context"
	"database/sql"

	"github.com/gitat/party-rental-api/internal/model"
)

// RoomRepo provides lookups over the SALON table.  Rooms are managed
// directly in the database; the API only reads them.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// ListActive returns every active salon for the booking frontend.
func (r *RoomRepo) ListActive(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT id, nombre, direccion, capacidad_personas, precio_base, descripcion, activo
               FROM SALON WHERE activo = 1`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var s model.Room
		var dir, desc sql.NullString
		var cap sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Nombre, &dir, &cap, &s.PrecioBase, &desc, &s.Activo); err != nil {
			return nil, err
		}
		if dir.Valid {
			v := dir.String
			s.Direccion = &v
		}
		if cap.Valid {
			v := uint32(cap.Int64)
			s.CapacidadPersonas = &v
		}
		if desc.Valid {
			v := desc.String
			s.Descripcion = &v
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// BasePriceByID returns a salon's per-day base price.  sql.ErrNoRows
// when the salon does not exist; the pricing resolver maps that to
// ErrRoomNotFound.
func (r *RoomRepo) BasePriceByID(ctx context.Context, id uint64) (float64, error) {
	var price float64
	err := r.db.QueryRowContext(ctx, `SELECT precio_base FROM SALON WHERE id = ?`, id).Scan(&price)
	return price, err
}
