package model

// PriceStock is the batch lookup result the pricing resolver works with:
// the current rental price and available stock of one inventory item.
type PriceStock struct {
	ID                 uint64  `json:"id"`
	PrecioAlquiler     float64 `json:"precio_alquiler"`
	CantidadDisponible uint32  `json:"cantidad_disponible"`
}

// InventoryRow is one row of the general inventory listing, joined with
// its category and the optional type and color lookups.
type InventoryRow struct {
	ID                 uint64  `json:"id"`
	NombreItem         string  `json:"nombre_item"`
	Categoria          string  `json:"categoria"`
	Tipo               *string `json:"tipo,omitempty"`
	Color              *string `json:"color,omitempty"`
	PrecioAlquiler     float64 `json:"precio_alquiler"`
	CantidadTotal      uint32  `json:"cantidad_total"`
	CantidadDisponible uint32  `json:"cantidad_disponible"`
}

// InventoryItem carries the editable columns of INVENTARIO_GENERAL, read
// back before a patch so that only changed fields are written.
type InventoryItem struct {
	ID             uint64
	NombreItem     string
	CategoriaID    uint64
	TipoID         *uint64
	ColorID        *uint64
	PrecioAlquiler float64
	Descripcion    *string
}

// ItemPatch carries the optional fields of a partial inventory update.
type ItemPatch struct {
	NombreItem     *string
	CategoriaID    *uint64
	TipoID         *uint64
	ColorID        *uint64
	PrecioAlquiler *float64
	Descripcion    *string
}

// Empty reports whether the patch carries no assignments.
func (p ItemPatch) Empty() bool {
	return p.NombreItem == nil && p.CategoriaID == nil && p.TipoID == nil &&
		p.ColorID == nil && p.PrecioAlquiler == nil && p.Descripcion == nil
}
