package repository

import (
	"context"
	"database/sql"

	"github.com/gitat/party-rental-api/internal/model"
)

// PaymentRepo reads PAGO rows for the reservation detail views.  The
// initial pending payment of a reservation is inserted by the booking
// transaction (ReservationRepo.Create), not here, so the two can never
// disagree about atomicity.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// ListByReservation returns every payment of one reservation, newest
// first.  An empty slice is a normal result: the reservation simply has
// no recorded payments yet.
func (r *PaymentRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	const q = `SELECT id, monto, metodo_pago, estado, fecha_pago, referencia, notas
               FROM PAGO
               WHERE reservacion_id = ?
               ORDER BY fecha_pago DESC`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		var fecha sql.NullTime
		var ref, notas sql.NullString
		if err := rows.Scan(&p.ID, &p.Monto, &p.MetodoPago, &p.Estado, &fecha, &ref, &notas); err != nil {
			return nil, err
		}
		if fecha.Valid {
			t := fecha.Time
			p.FechaPago = &t
		}
		if ref.Valid {
			v := ref.String
			p.Referencia = &v
		}
		if notas.Valid {
			v := notas.String
			p.Notas = &v
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
