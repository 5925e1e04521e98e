// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a reservation is successfully
// booked. It carries enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	UserName      string  `json:"user_name"`
	TipoReserva   string  `json:"tipo_reserva"`
	FechaInicio   string  `json:"fecha_inicio"`
	FechaFin      string  `json:"fecha_fin"`
	SalonID       *uint64 `json:"salon_id,omitempty"`
	ItemCount     int     `json:"item_count"`
	CostoReserva  float64 `json:"costo_reserva"`
	CreatedAt     string  `json:"created_at"`
}
