package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitat/party-rental-api/internal/model"
)

func newMock(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

func strPtr(s string) *string { return &s }

func TestCreateSalonReservationCommits(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO RESERVACION").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO DETALLE_RESERVA_ITEM").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE INVENTARIO_GENERAL").
		WithArgs(uint32(2), uint64(7), uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO DETALLE_RESERVA_SALON").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO PAGO").
		WithArgs(uint64(12), "efectivo").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rec := ReservationRecord{
		UsuarioID:        5,
		TipoReserva:      model.KindSalon,
		FechaInicio:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		FechaFin:         time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		TelefonoContacto: "5551234",
		DireccionEvento:  "Av. Siempre Viva 742",
		Notas:            strPtr("globos blancos"),
	}
	lines := []LineItemRecord{
		{InventarioGeneralID: 7, Cantidad: 2, PrecioUnitario: 50, DiasAlquiler: 2, Subtotal: 200, EsExtra: true},
	}
	room := &RoomDetailRecord{SalonID: 3, PrecioSalon: 1000, DiasAlquiler: 2, Subtotal: 2000}

	err := repo.Create(context.Background(), &rec, lines, room, "efectivo")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAbortsWhenStockDrained(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO RESERVACION").
		WillReturnResult(sqlmock.NewResult(33, 1))
	mock.ExpectExec("INSERT INTO DETALLE_RESERVA_ITEM").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// A concurrent booking took the stock first: the guarded decrement
	// matches no row and the whole transaction rolls back.
	mock.ExpectExec("UPDATE INVENTARIO_GENERAL").
		WithArgs(uint32(5), uint64(9), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec := ReservationRecord{
		UsuarioID:        5,
		TipoReserva:      model.KindPrivate,
		FechaInicio:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		FechaFin:         time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		TelefonoContacto: "5551234",
		DireccionEvento:  "Calle 10",
	}
	lines := []LineItemRecord{
		{InventarioGeneralID: 9, Cantidad: 5, PrecioUnitario: 25, DiasAlquiler: 1, Subtotal: 125},
	}

	err := repo.Create(context.Background(), &rec, lines, nil, "transferencia")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSumsDuplicateItemLines(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO RESERVACION").
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectExec("INSERT INTO DETALLE_RESERVA_ITEM").
		WillReturnResult(sqlmock.NewResult(1, 2))
	// Two lines for item 4 decrement once with the summed quantity.
	mock.ExpectExec("UPDATE INVENTARIO_GENERAL").
		WithArgs(uint32(3), uint64(4), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO PAGO").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rec := ReservationRecord{
		UsuarioID:        2,
		TipoReserva:      model.KindPrivate,
		FechaInicio:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		FechaFin:         time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
		TelefonoContacto: "5550000",
		DireccionEvento:  "Col. Centro",
	}
	lines := []LineItemRecord{
		{InventarioGeneralID: 4, Cantidad: 1, PrecioUnitario: 10, DiasAlquiler: 1, Subtotal: 10},
		{InventarioGeneralID: 4, Cantidad: 2, PrecioUnitario: 10, DiasAlquiler: 1, Subtotal: 20},
	}

	err := repo.Create(context.Background(), &rec, lines, nil, "efectivo")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnPaymentFailure(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO RESERVACION").
		WillReturnResult(sqlmock.NewResult(50, 1))
	mock.ExpectExec("INSERT INTO PAGO").
		WillReturnError(boom)
	mock.ExpectRollback()

	rec := ReservationRecord{
		UsuarioID:        8,
		TipoReserva:      model.KindPrivate,
		FechaInicio:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		FechaFin:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		TelefonoContacto: "5559999",
		DireccionEvento:  "Calle 5",
	}

	err := repo.Create(context.Background(), &rec, nil, nil, "tarjeta")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListToValidateQuery(t *testing.T) {
	repo, mock := newMock(t)

	cols := []string{"id", "tipo_reserva", "fecha_inicio", "fecha_fin", "estado", "nombre", "email", "fecha_creacion"}
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("fecha_fin < CURDATE() AND r.estado != 'finalizado'")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, model.KindPrivate,
				time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
				model.StatePending, "Ana Torres", "ana@example.com", created))

	out, err := repo.ListToValidate(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(3), out[0].ID)
	assert.Equal(t, "2026-01-01", out[0].FechaInicio)
	assert.Equal(t, model.StatePending, out[0].Estado)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCustomerWrapsPattern(t *testing.T) {
	repo, mock := newMock(t)

	cols := []string{"id", "tipo_reserva", "fecha_inicio", "fecha_fin", "estado", "nombre", "email", "fecha_creacion"}
	mock.ExpectQuery("u.nombre LIKE").
		WithArgs("%ana%").
		WillReturnRows(sqlmock.NewRows(cols))

	out, err := repo.ListByCustomer(context.Background(), "ana")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInfoRejectsEmptyPatch(t *testing.T) {
	repo, _ := newMock(t)

	err := repo.UpdateInfo(context.Background(), 1, model.ReservationPatch{})
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestUpdateInfoWritesOnlyGivenFields(t *testing.T) {
	repo, mock := newMock(t)

	estado := model.StateConfirmed
	mock.ExpectExec(regexp.QuoteMeta("UPDATE RESERVACION SET estado = ? WHERE id = ?")).
		WithArgs(estado, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateInfo(context.Background(), 5, model.ReservationPatch{Estado: &estado})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
