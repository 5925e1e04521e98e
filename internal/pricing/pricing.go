package pricing

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/repository"
)

// InventorySource yields current prices and available stock for a batch
// of item ids.  Ids absent from the table are absent from the map.
type InventorySource interface {
	PricesAndStockByIDs(ctx context.Context, ids []uint64) (map[uint64]model.PriceStock, error)
}

// RoomSource yields a salon's per-day base price.
type RoomSource interface {
	BasePriceByID(ctx context.Context, id uint64) (float64, error)
}

// ItemRequest is one requested line before pricing: the caller states
// only item and quantity, prices always come from the database.
type ItemRequest struct {
	InventarioGeneralID uint64 `json:"inventario_general_id"`
	Cantidad            uint32 `json:"cantidad"`
}

// RentalDays converts a date range into billable days: the absolute
// difference in whole days rounded up, never less than one.  A same-day
// event bills a single day.
func RentalDays(start, end time.Time) uint32 {
	h := end.Sub(start).Hours()
	if h < 0 {
		h = -h
	}
	days := math.Ceil(h / 24)
	if days < 1 {
		days = 1
	}
	return uint32(days)
}

// Resolver snapshots database prices into reservation line details.  It
// only reads; the conditional stock decrement inside the booking
// transaction is what actually guards against overselling.
type Resolver struct {
	inventory InventorySource
	rooms     RoomSource
}

// NewResolver returns a Resolver backed by the given sources.
func NewResolver(inventory InventorySource, rooms RoomSource) *Resolver {
	return &Resolver{inventory: inventory, rooms: rooms}
}

// PriceItems resolves the requested items into priced line records.
// Unknown ids return ErrItemNotFound and a request beyond current stock
// returns ErrInsufficientStock, both before any write happens.  Items on
// a salon reservation are marked as extras.
func (p *Resolver) PriceItems(ctx context.Context, kind string, days uint32, reqs []ItemRequest) ([]repository.LineItemRecord, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	ids := make([]uint64, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.InventarioGeneralID)
	}
	stock, err := p.inventory.PricesAndStockByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	esExtra := kind == model.KindSalon
	lines := make([]repository.LineItemRecord, 0, len(reqs))
	for _, req := range reqs {
		ps, ok := stock[req.InventarioGeneralID]
		if !ok {
			return nil, repository.ErrItemNotFound
		}
		if req.Cantidad > ps.CantidadDisponible {
			return nil, repository.ErrInsufficientStock
		}
		lines = append(lines, repository.LineItemRecord{
			InventarioGeneralID: req.InventarioGeneralID,
			Cantidad:            req.Cantidad,
			PrecioUnitario:      ps.PrecioAlquiler,
			DiasAlquiler:        days,
			Subtotal:            ps.PrecioAlquiler * float64(req.Cantidad) * float64(days),
			EsExtra:             esExtra,
		})
	}
	return lines, nil
}

// PriceRoom resolves a salon booking into its detail record using the
// salon's current base price.  ErrRoomNotFound when the salon does not
// exist.
func (p *Resolver) PriceRoom(ctx context.Context, salonID uint64, days uint32) (*repository.RoomDetailRecord, error) {
	base, err := p.rooms.BasePriceByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, err
	}
	return &repository.RoomDetailRecord{
		SalonID:      salonID,
		PrecioSalon:  base,
		DiasAlquiler: days,
		Subtotal:     base * float64(days),
	}, nil
}
