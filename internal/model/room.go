package model

// Room mirrors the SALON table.  Rooms are the on-site venues a salon
// reservation rents; precio_base is the per-day rate the pricing
// resolver multiplies by the rental-day count.
type Room struct {
	ID                uint64  `json:"id"`
	Nombre            string  `json:"nombre"`
	Direccion         *string `json:"direccion,omitempty"`
	CapacidadPersonas *uint32 `json:"capacidad_personas,omitempty"`
	PrecioBase        float64 `json:"precio_base"`
	Descripcion       *string `json:"descripcion,omitempty"`
	Activo            bool    `json:"activo"`
}

// RoomInventoryRow is one row of a room's own inventory listing: the
// INVENTARIO_SALON stock joined with the general item it references.
type RoomInventoryRow struct {
	SalonID                   uint64 `json:"salon_id"`
	NombreSalon               string `json:"nombre_salon"`
	IDInventarioSalon         uint64 `json:"id_inventario_salon"`
	ItemID                    uint64 `json:"item_id"`
	NombreItem                string `json:"nombre_item"`
	Categoria                 string `json:"categoria"`
	CantidadEnSalon           uint32 `json:"cantidad_en_salon"`
	CantidadDisponibleGeneral uint32 `json:"cantidad_disponible_general"`
}
