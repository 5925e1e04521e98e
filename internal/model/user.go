package model // model defines the domain structures shared across layers

import "time"

// Roles stored in the USUARIO.rol column.  Clients book reservations,
// employees manage them, admins additionally manage users and inventory.
const (
	RoleClient   = "cliente"
	RoleEmployee = "empleado"
	RoleAdmin    = "admin"
)

// User mirrors the USUARIO table.  The password hash never leaves the
// repository layer; JSON tags follow the wire format used by the frontend.
type User struct {
	ID           uint64    `json:"id"`
	Nombre       string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Telefono     *string   `json:"telefono,omitempty"`
	Rol          string    `json:"rol"`
	Activo       bool      `json:"activo"`
	Direccion    *string   `json:"direccion,omitempty"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"-"`
}

// UserPatch carries the optional fields of a partial user update.  Only
// non-nil fields are written, and only when they differ from the stored
// row.  Column names are fixed in the repository; callers cannot inject
// arbitrary assignments.
type UserPatch struct {
	Nombre       *string
	Email        *string
	Telefono     *string
	Rol          *string
	Activo       *bool
	Direccion    *string
	PasswordHash *string
}

// Empty reports whether the patch carries no assignments at all.
func (p UserPatch) Empty() bool {
	return p.Nombre == nil && p.Email == nil && p.Telefono == nil &&
		p.Rol == nil && p.Activo == nil && p.Direccion == nil && p.PasswordHash == nil
}
