package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/repository"
)

// The three detail reads run concurrently, so expectations must match in
// any order.
func newDetailMock(t *testing.T) (*DetailService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)
	return NewDetailService(repository.NewReservationRepo(db), repository.NewPaymentRepo(db)), mock
}

var (
	headerCols  = []string{"id", "usuario_id", "fecha_inicio", "fecha_fin", "estado", "direccion_evento", "telefono_contacto", "notas", "fecha_creacion", "nombre", "precio_salon"}
	itemCols    = []string{"cantidad", "nombre_item", "precio_unitario", "subtotal", "dias_alquiler", "es_extra"}
	paymentCols = []string{"id", "monto", "metodo_pago", "estado", "fecha_pago", "referencia", "notas"}
)

func TestClientDetailDerivesTotals(t *testing.T) {
	svc, mock := newDetailMock(t)

	inicio := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 4, 20, 9, 30, 0, 0, time.UTC)
	paid := time.Date(2026, 4, 21, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM RESERVACION r").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows(headerCols).
			AddRow(12, 5, inicio, fin, model.StateConfirmed, "Av. Siempre Viva 742",
				"5551234", nil, created, "Salon Jardin", 2000.0))
	mock.ExpectQuery("FROM DETALLE_RESERVA_ITEM").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(2, "Sillas plegables", 50.0, 200.0, 2, true))
	mock.ExpectQuery("FROM PAGO").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(1, 500.0, "efectivo", model.PaymentCompleted, paid, nil, nil).
			AddRow(2, 300.0, "transferencia", model.PaymentPending, nil, nil, nil))

	d, err := svc.ClientDetail(context.Background(), 12)
	require.NoError(t, err)
	require.NotNil(t, d)

	// 200 in items plus the captured salon price.
	assert.Equal(t, 2200.0, d.CostoReserva)
	// Only the completed payment counts.
	assert.Equal(t, 500.0, d.TotalPagado)
	assert.Equal(t, 1700.0, d.SaldoPendiente)

	assert.Equal(t, uint64(5), d.UsuarioID)
	assert.Equal(t, "2026-05-01", d.FechaInicio)
	assert.Equal(t, "2026-05-03", d.FechaFin)
	require.NotNil(t, d.NombreSalon)
	assert.Equal(t, "Salon Jardin", *d.NombreSalon)
	require.Len(t, d.Items, 1)
	assert.True(t, d.Items[0].EsExtra)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDetailMissingReservation(t *testing.T) {
	svc, mock := newDetailMock(t)

	mock.ExpectQuery("FROM RESERVACION r").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(headerCols))
	mock.ExpectQuery("FROM DETALLE_RESERVA_ITEM").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(itemCols))
	mock.ExpectQuery("FROM PAGO").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(paymentCols))

	d, err := svc.ClientDetail(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestStaffDetailIncludesCustomerIdentity(t *testing.T) {
	svc, mock := newDetailMock(t)

	staffHeaderCols := []string{"id", "fecha_inicio", "fecha_fin", "estado", "direccion_evento",
		"telefono_contacto", "notas", "fecha_creacion", "nombre", "email", "empleado", "salon", "precio_salon"}
	staffItemCols := []string{"id", "cantidad", "precio_unitario", "subtotal", "es_extra", "dias_alquiler", "nombre_item", "categoria"}

	inicio := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM RESERVACION r").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(staffHeaderCols).
			AddRow(7, inicio, fin, model.StatePending, "Calle 10", "5550000",
				"mesa extra", created, "Ana Torres", "ana@example.com", "Luis Vega", nil, nil))
	mock.ExpectQuery("FROM DETALLE_RESERVA_ITEM").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(staffItemCols).
			AddRow(21, 3, 30.0, 90.0, false, 1, "Mesas redondas", "Mobiliario"))
	mock.ExpectQuery("FROM PAGO").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(paymentCols))

	d, err := svc.StaffDetail(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, "Ana Torres", d.NombreCliente)
	assert.Equal(t, "ana@example.com", d.EmailCliente)
	require.NotNil(t, d.NombreEmpleado)
	assert.Equal(t, "Luis Vega", *d.NombreEmpleado)
	assert.Nil(t, d.NombreSalon)

	assert.Equal(t, 90.0, d.CostoReserva)
	assert.Equal(t, 0.0, d.TotalPagado)
	assert.Equal(t, 90.0, d.SaldoPendiente)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "Mobiliario", d.Items[0].Categoria)
}
