package pricing

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/repository"
)

type fakeInventory struct {
	stock map[uint64]model.PriceStock
}

func (f *fakeInventory) PricesAndStockByIDs(_ context.Context, ids []uint64) (map[uint64]model.PriceStock, error) {
	out := make(map[uint64]model.PriceStock)
	for _, id := range ids {
		if ps, ok := f.stock[id]; ok {
			out[id] = ps
		}
	}
	return out, nil
}

type fakeRooms struct {
	prices map[uint64]float64
}

func (f *fakeRooms) BasePriceByID(_ context.Context, id uint64) (float64, error) {
	p, ok := f.prices[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return p, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalDays(t *testing.T) {
	// Same-day events bill a single day.
	assert.Equal(t, uint32(1), RentalDays(day("2026-03-10"), day("2026-03-10")))
	// Day 1 to day 4 is a 3-day rental.
	assert.Equal(t, uint32(3), RentalDays(day("2026-03-01"), day("2026-03-04")))
	// Reversed ranges count the same span.
	assert.Equal(t, uint32(3), RentalDays(day("2026-03-04"), day("2026-03-01")))
	assert.Equal(t, uint32(1), RentalDays(day("2026-03-10"), day("2026-03-11")))
}

func TestPriceItemsSalonBooking(t *testing.T) {
	inv := &fakeInventory{stock: map[uint64]model.PriceStock{
		7: {ID: 7, PrecioAlquiler: 50, CantidadDisponible: 10},
	}}
	rooms := &fakeRooms{prices: map[uint64]float64{3: 1000}}
	r := NewResolver(inv, rooms)

	days := RentalDays(day("2026-05-01"), day("2026-05-03"))
	require.Equal(t, uint32(2), days)

	lines, err := r.PriceItems(context.Background(), model.KindSalon, days, []ItemRequest{
		{InventarioGeneralID: 7, Cantidad: 2},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 200.0, lines[0].Subtotal)
	assert.True(t, lines[0].EsExtra)

	room, err := r.PriceRoom(context.Background(), 3, days)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, room.Subtotal)
	assert.Equal(t, 1000.0, room.PrecioSalon)

	total := room.Subtotal
	for _, l := range lines {
		total += l.Subtotal
	}
	assert.Equal(t, 2200.0, total)
}

func TestPriceItemsPrivateBooking(t *testing.T) {
	inv := &fakeInventory{stock: map[uint64]model.PriceStock{
		1: {ID: 1, PrecioAlquiler: 30, CantidadDisponible: 5},
		2: {ID: 2, PrecioAlquiler: 10, CantidadDisponible: 5},
	}}
	r := NewResolver(inv, &fakeRooms{})

	lines, err := r.PriceItems(context.Background(), model.KindPrivate, 2, []ItemRequest{
		{InventarioGeneralID: 1, Cantidad: 3},
		{InventarioGeneralID: 2, Cantidad: 1},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 180.0, lines[0].Subtotal)
	assert.Equal(t, 20.0, lines[1].Subtotal)
	assert.False(t, lines[0].EsExtra)
	assert.False(t, lines[1].EsExtra)

	total := 0.0
	for _, l := range lines {
		total += l.Subtotal
	}
	assert.Equal(t, 200.0, total)
}

func TestPriceItemsInsufficientStock(t *testing.T) {
	inv := &fakeInventory{stock: map[uint64]model.PriceStock{
		9: {ID: 9, PrecioAlquiler: 25, CantidadDisponible: 3},
	}}
	r := NewResolver(inv, &fakeRooms{})

	_, err := r.PriceItems(context.Background(), model.KindPrivate, 1, []ItemRequest{
		{InventarioGeneralID: 9, Cantidad: 5},
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
}

func TestPriceItemsUnknownItem(t *testing.T) {
	r := NewResolver(&fakeInventory{stock: map[uint64]model.PriceStock{}}, &fakeRooms{})

	_, err := r.PriceItems(context.Background(), model.KindPrivate, 1, []ItemRequest{
		{InventarioGeneralID: 404, Cantidad: 1},
	})
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
}

func TestPriceRoomUnknownRoom(t *testing.T) {
	r := NewResolver(&fakeInventory{}, &fakeRooms{prices: map[uint64]float64{}})

	_, err := r.PriceRoom(context.Background(), 42, 1)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestPriceItemsEmptyRequest(t *testing.T) {
	r := NewResolver(&fakeInventory{}, &fakeRooms{})
	lines, err := r.PriceItems(context.Background(), model.KindSalon, 2, nil)
	require.NoError(t, err)
	assert.Nil(t, lines)
}
