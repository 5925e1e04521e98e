package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gitat/party-rental-api/internal/model"
)

// InventoryRepo provides read and write access to INVENTARIO_GENERAL and
// the per-room INVENTARIO_SALON stock.  The pricing resolver consumes the
// batch price/stock lookup; the admin inventory endpoints use the rest.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// PricesAndStockByIDs fetches the current rental price and available
// stock for every given item id in one query.  Ids absent from the table
// are simply absent from the returned map; the caller decides whether
// that is an error.  An empty id list returns an empty map.
func (r *InventoryRepo) PricesAndStockByIDs(ctx context.Context, ids []uint64) (map[uint64]model.PriceStock, error) {
	out := make(map[uint64]model.PriceStock, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `SELECT id, precio_alquiler, cantidad_disponible
              FROM INVENTARIO_GENERAL
              WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ps model.PriceStock
		if err := rows.Scan(&ps.ID, &ps.PrecioAlquiler, &ps.CantidadDisponible); err != nil {
			return nil, err
		}
		out[ps.ID] = ps
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListGeneral returns the full general inventory joined with category,
// type and color names, ordered for tabular display.
func (r *InventoryRepo) ListGeneral(ctx context.Context) ([]model.InventoryRow, error) {
	const q = `SELECT ig.id, ig.nombre_item, cat.nombre,
                      tipo.nombre, col.nombre,
                      ig.precio_alquiler, ig.cantidad_total, ig.cantidad_disponible
               FROM INVENTARIO_GENERAL ig
               JOIN CATEGORIA_PRODUCTO cat ON ig.categoria_id = cat.id
               LEFT JOIN TIPO_PRODUCTO tipo ON ig.tipo_id = tipo.id
               LEFT JOIN COLOR col ON ig.color_id = col.id
               ORDER BY cat.nombre, ig.nombre_item`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.InventoryRow, 0)
	for rows.Next() {
		var it model.InventoryRow
		var tipo, color sql.NullString
		if err := rows.Scan(&it.ID, &it.NombreItem, &it.Categoria, &tipo, &color,
			&it.PrecioAlquiler, &it.CantidadTotal, &it.CantidadDisponible); err != nil {
			return nil, err
		}
		if tipo.Valid {
			t := tipo.String
			it.Tipo = &t
		}
		if color.Valid {
			c := color.String
			it.Color = &c
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemByID loads the editable columns of one item so that a patch can
// be diffed against the stored values.  sql.ErrNoRows when absent.
func (r *InventoryRepo) GetItemByID(ctx context.Context, id uint64) (model.InventoryItem, error) {
	const q = `SELECT id, nombre_item, categoria_id, tipo_id, color_id, precio_alquiler, descripcion
               FROM INVENTARIO_GENERAL WHERE id = ?`
	var it model.InventoryItem
	var tipoID, colorID sql.NullInt64
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.NombreItem, &it.CategoriaID, &tipoID, &colorID, &it.PrecioAlquiler, &desc)
	if err != nil {
		return it, err
	}
	if tipoID.Valid {
		v := uint64(tipoID.Int64)
		it.TipoID = &v
	}
	if colorID.Valid {
		v := uint64(colorID.Int64)
		it.ColorID = &v
	}
	if desc.Valid {
		d := desc.String
		it.Descripcion = &d
	}
	return it, nil
}

// CreateItem inserts a new general inventory item.  New items start with
// zero stock; quantities are added afterwards through AdjustStock so the
// stock trail always goes through the same path.
func (r *InventoryRepo) CreateItem(ctx context.Context, categoriaID uint64, tipoID, colorID *uint64, precio float64, nombre string, descripcion *string) (uint64, error) {
	const q = `INSERT INTO INVENTARIO_GENERAL
               (categoria_id, tipo_id, color_id, precio_alquiler, nombre_item, cantidad_total, cantidad_disponible, descripcion)
               VALUES (?, ?, ?, ?, ?, 0, 0, ?)`
	res, err := r.db.ExecContext(ctx, q, categoriaID, nullableID(tipoID), nullableID(colorID), precio, nombre, nullableStr(descripcion))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateItem writes the assignments present in the patch.  Column names
// are fixed here; the caller only chooses which of them to set.  An
// empty patch returns ErrNoChanges without touching the database.
func (r *InventoryRepo) UpdateItem(ctx context.Context, id uint64, p model.ItemPatch) error {
	if p.Empty() {
		return ErrNoChanges
	}
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	if p.NombreItem != nil {
		sets = append(sets, "nombre_item = ?")
		args = append(args, *p.NombreItem)
	}
	if p.CategoriaID != nil {
		sets = append(sets, "categoria_id = ?")
		args = append(args, *p.CategoriaID)
	}
	if p.TipoID != nil {
		sets = append(sets, "tipo_id = ?")
		args = append(args, *p.TipoID)
	}
	if p.ColorID != nil {
		sets = append(sets, "color_id = ?")
		args = append(args, *p.ColorID)
	}
	if p.PrecioAlquiler != nil {
		sets = append(sets, "precio_alquiler = ?")
		args = append(args, *p.PrecioAlquiler)
	}
	if p.Descripcion != nil {
		sets = append(sets, "descripcion = ?")
		args = append(args, *p.Descripcion)
	}
	args = append(args, id)
	query := "UPDATE INVENTARIO_GENERAL SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// AdjustStock applies deltas to an item's total and available counts.
// Deltas may be negative; the admin frontend uses this to register new
// purchases and write-offs.
func (r *InventoryRepo) AdjustStock(ctx context.Context, id uint64, deltaTotal, deltaDisponible int32) error {
	const q = `UPDATE INVENTARIO_GENERAL
               SET cantidad_total = cantidad_total + ?, cantidad_disponible = cantidad_disponible + ?
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, deltaTotal, deltaDisponible, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ListRoomInventory returns the inventory assigned to one salon, joined
// with the general item it references.  Ordered by category then name.
func (r *InventoryRepo) ListRoomInventory(ctx context.Context, salonID uint64) ([]model.RoomInventoryRow, error) {
	const q = `SELECT s.id, s.nombre, isalon.id, ig.id, ig.nombre_item, cat.nombre,
                      isalon.cantidad_disponible, ig.cantidad_disponible
               FROM INVENTARIO_SALON isalon
               JOIN SALON s ON isalon.salon_id = s.id
               JOIN INVENTARIO_GENERAL ig ON isalon.inventario_general_id = ig.id
               JOIN CATEGORIA_PRODUCTO cat ON ig.categoria_id = cat.id
               WHERE isalon.salon_id = ?
               ORDER BY cat.nombre, ig.nombre_item`
	rows, err := r.db.QueryContext(ctx, q, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomInventoryRow, 0)
	for rows.Next() {
		var row model.RoomInventoryRow
		if err := rows.Scan(&row.SalonID, &row.NombreSalon, &row.IDInventarioSalon,
			&row.ItemID, &row.NombreItem, &row.Categoria,
			&row.CantidadEnSalon, &row.CantidadDisponibleGeneral); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustRoomStock applies a delta to the stock of one item inside one
// salon.  Returns ErrItemNotFound when no such assignment row exists.
func (r *InventoryRepo) AdjustRoomStock(ctx context.Context, salonID, itemID uint64, delta int32) error {
	const q = `UPDATE INVENTARIO_SALON
               SET cantidad_disponible = cantidad_disponible + ?
               WHERE inventario_general_id = ? AND salon_id = ?`
	res, err := r.db.ExecContext(ctx, q, delta, itemID, salonID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func nullableID(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStr(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
