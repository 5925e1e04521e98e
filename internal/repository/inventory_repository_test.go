package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitat/party-rental-api/internal/model"
)

func newInventoryMock(t *testing.T) (*InventoryRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInventoryRepo(db), mock
}

func TestPricesAndStockByIDs(t *testing.T) {
	repo, mock := newInventoryMock(t)

	mock.ExpectQuery("FROM INVENTARIO_GENERAL").
		WithArgs(uint64(1), uint64(2), uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "precio_alquiler", "cantidad_disponible"}).
			AddRow(1, 30.0, 5).
			AddRow(2, 10.0, 8))

	out, err := repo.PricesAndStockByIDs(context.Background(), []uint64{1, 2, 404})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 30.0, out[1].PrecioAlquiler)
	assert.Equal(t, uint32(8), out[2].CantidadDisponible)
	// Unknown ids are simply absent, not an error.
	_, ok := out[404]
	assert.False(t, ok)
}

func TestPricesAndStockByIDsEmpty(t *testing.T) {
	repo, _ := newInventoryMock(t)

	out, err := repo.PricesAndStockByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAdjustStockUnknownItem(t *testing.T) {
	repo, mock := newInventoryMock(t)

	mock.ExpectExec("UPDATE INVENTARIO_GENERAL").
		WithArgs(int32(5), int32(5), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AdjustStock(context.Background(), 99, 5, 5)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItemRejectsEmptyPatch(t *testing.T) {
	repo, _ := newInventoryMock(t)

	err := repo.UpdateItem(context.Background(), 1, model.ItemPatch{})
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestUpdateItemWritesOnlyGivenFields(t *testing.T) {
	repo, mock := newInventoryMock(t)

	precio := 75.0
	mock.ExpectExec(regexp.QuoteMeta("UPDATE INVENTARIO_GENERAL SET precio_alquiler = ? WHERE id = ?")).
		WithArgs(precio, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateItem(context.Background(), 4, model.ItemPatch{PrecioAlquiler: &precio})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
