package service

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/repository"
)

// DetailService assembles the reservation detail views.  Header, item
// lines and payments live in three tables; the three reads are
// independent so they run concurrently and the totals are derived from
// whatever the database holds right now, never from stored aggregates.
type DetailService struct {
	reservations *repository.ReservationRepo
	payments     *repository.PaymentRepo
}

// NewDetailService returns a DetailService over the given repositories.
func NewDetailService(reservations *repository.ReservationRepo, payments *repository.PaymentRepo) *DetailService {
	return &DetailService{reservations: reservations, payments: payments}
}

// ClientDetail is the detail view a customer sees for their own
// reservation.
type ClientDetail struct {
	repository.ClientHeader
	Items          []model.LineItem `json:"items"`
	Pagos          []model.Payment  `json:"pagos"`
	CostoReserva   float64          `json:"costo_reserva"`
	TotalPagado    float64          `json:"total_pagado"`
	SaldoPendiente float64          `json:"saldo_pendiente"`
}

// StaffDetail is the detail view staff see, with customer identity and
// line ids included.
type StaffDetail struct {
	repository.StaffHeader
	Items          []model.LineItem `json:"items"`
	Pagos          []model.Payment  `json:"pagos"`
	CostoReserva   float64          `json:"costo_reserva"`
	TotalPagado    float64          `json:"total_pagado"`
	SaldoPendiente float64          `json:"saldo_pendiente"`
}

// totals derives the money summary: the reservation cost is the sum of
// line subtotals plus the captured salon price, payments count only once
// completed, and the balance is whatever remains.
func totals(items []model.LineItem, costoSalon *float64, pagos []model.Payment) (costo, pagado, saldo float64) {
	for _, it := range items {
		costo += it.Subtotal
	}
	if costoSalon != nil {
		costo += *costoSalon
	}
	for _, p := range pagos {
		if p.Estado == model.PaymentCompleted {
			pagado += p.Monto
		}
	}
	return costo, pagado, costo - pagado
}

// ClientDetail loads the customer-facing detail of one reservation.  A
// missing reservation returns (nil, nil); the handler turns that into a
// 404.
func (s *DetailService) ClientDetail(ctx context.Context, id uint64) (*ClientDetail, error) {
	var (
		header *repository.ClientHeader
		items  []model.LineItem
		pagos  []model.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.reservations.GetClientHeader(gctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		header = h
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.reservations.ListClientItems(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		pagos, err = s.payments.ListByReservation(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	d := &ClientDetail{ClientHeader: *header, Items: items, Pagos: pagos}
	d.CostoReserva, d.TotalPagado, d.SaldoPendiente = totals(items, header.CostoSalon, pagos)
	return d, nil
}

// StaffDetail loads the staff-facing detail of one reservation.  A
// missing reservation returns (nil, nil).
func (s *DetailService) StaffDetail(ctx context.Context, id uint64) (*StaffDetail, error) {
	var (
		header *repository.StaffHeader
		items  []model.LineItem
		pagos  []model.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.reservations.GetStaffHeader(gctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		header = h
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.reservations.ListStaffItems(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		pagos, err = s.payments.ListByReservation(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	d := &StaffDetail{StaffHeader: *header, Items: items, Pagos: pagos}
	d.CostoReserva, d.TotalPagado, d.SaldoPendiente = totals(items, header.CostoSalon, pagos)
	return d, nil
}
