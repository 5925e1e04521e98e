package model

import "time"

// Payment states stored in PAGO.estado.  Only completed payments count
// toward the amount paid when deriving a reservation's balance.
const (
	PaymentPending   = "pendiente"
	PaymentCompleted = "completado"
)

// Payment mirrors a PAGO row.  The initial payment is created together
// with the reservation with monto 0; staff later update the amount and
// state as money is received, possibly adding further rows for partial
// payments.
type Payment struct {
	ID         uint64     `json:"id"`
	Monto      float64    `json:"monto"`
	MetodoPago string     `json:"metodo_pago"`
	Estado     string     `json:"estado"`
	FechaPago  *time.Time `json:"fecha_pago"`
	Referencia *string    `json:"referencia,omitempty"`
	Notas      *string    `json:"notas,omitempty"`
}
