package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gitat/party-rental-api/internal/model"
)

// UserRepo provides access to the USUARIO table for both the auth flow
// and the admin user management screens.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, nombre, email, contrasena, telefono, rol, activo, direccion, photo_url`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var tel, dir, photo sql.NullString
	err := row.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &tel, &u.Rol, &u.Activo, &dir, &photo)
	if err != nil {
		return u, err
	}
	if tel.Valid {
		v := tel.String
		u.Telefono = &v
	}
	if dir.Valid {
		v := dir.String
		u.Direccion = &v
	}
	if photo.Valid {
		v := photo.String
		u.PhotoURL = &v
	}
	return u, nil
}

// Create inserts a user with the client role and returns the stored row.
// Telefono is optional.  A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, nombre, email, passwordHash string, telefono *string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO USUARIO (nombre, email, contrasena, telefono) VALUES (?,?,?,?)",
		nombre, email, passwordHash, nullableStr(telefono))
	if err != nil {
		// MySQL duplicate-key errors carry code 1062
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByEmail(ctx, email)
}

// CreateFull inserts a user with every column set; used by the admin
// user-management screen where role, active flag and address are chosen.
func (r *UserRepo) CreateFull(ctx context.Context, u model.User, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO USUARIO (nombre, email, contrasena, telefono, rol, activo, direccion) VALUES (?,?,?,?,?,?,?)",
		u.Nombre, strings.ToLower(strings.TrimSpace(u.Email)), passwordHash,
		nullableStr(u.Telefono), u.Rol, u.Activo, nullableStr(u.Direccion))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM USUARIO WHERE email = ? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM USUARIO WHERE id = ? LIMIT 1", id))
}

// List returns every user for the admin table.  Password hashes are
// loaded but never serialized (json:"-").
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM USUARIO")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		var tel, dir, photo sql.NullString
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &tel, &u.Rol, &u.Activo, &dir, &photo); err != nil {
			return nil, err
		}
		if tel.Valid {
			v := tel.String
			u.Telefono = &v
		}
		if dir.Valid {
			v := dir.String
			u.Direccion = &v
		}
		if photo.Valid {
			v := photo.String
			u.PhotoURL = &v
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchField names the single criterion an admin search applies.  Each
// value maps to exactly one column; the dispatch below never interpolates
// caller input into SQL.
type SearchField string

const (
	SearchByEmail    SearchField = "email"
	SearchByNombre   SearchField = "nombre"
	SearchByTelefono SearchField = "telefono"
	SearchByRol      SearchField = "rol"
	SearchByActivo   SearchField = "activo"
)

// Search returns users matching one criterion.  Unknown fields yield an
// empty result rather than an error.
func (r *UserRepo) Search(ctx context.Context, field SearchField, value interface{}) ([]model.User, error) {
	var q string
	switch field {
	case SearchByEmail:
		q = "SELECT " + userCols + " FROM USUARIO WHERE email = ?"
	case SearchByNombre:
		q = "SELECT " + userCols + " FROM USUARIO WHERE nombre = ?"
	case SearchByTelefono:
		q = "SELECT " + userCols + " FROM USUARIO WHERE telefono = ?"
	case SearchByRol:
		q = "SELECT " + userCols + " FROM USUARIO WHERE rol = ?"
	case SearchByActivo:
		q = "SELECT " + userCols + " FROM USUARIO WHERE activo = ?"
	default:
		return []model.User{}, nil
	}
	rows, err := r.DB.QueryContext(ctx, q, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		var tel, dir, photo sql.NullString
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &tel, &u.Rol, &u.Activo, &dir, &photo); err != nil {
			return nil, err
		}
		if tel.Valid {
			v := tel.String
			u.Telefono = &v
		}
		if dir.Valid {
			v := dir.String
			u.Direccion = &v
		}
		if photo.Valid {
			v := photo.String
			u.PhotoURL = &v
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Deactivate performs the logical delete the admin screen uses: the row
// stays, ACTIVO drops to 0 and the session middleware rejects the user.
func (r *UserRepo) Deactivate(ctx context.Context, email string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE USUARIO SET activo = 0 WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Update writes the assignments present in the patch.  Column names are
// fixed; an empty patch returns ErrNoChanges.
func (r *UserRepo) Update(ctx context.Context, id uint64, p model.UserPatch) error {
	if p.Empty() {
		return ErrNoChanges
	}
	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if p.Nombre != nil {
		sets = append(sets, "nombre = ?")
		args = append(args, *p.Nombre)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.Telefono != nil {
		sets = append(sets, "telefono = ?")
		args = append(args, *p.Telefono)
	}
	if p.Rol != nil {
		sets = append(sets, "rol = ?")
		args = append(args, *p.Rol)
	}
	if p.Activo != nil {
		sets = append(sets, "activo = ?")
		args = append(args, *p.Activo)
	}
	if p.Direccion != nil {
		sets = append(sets, "direccion = ?")
		args = append(args, *p.Direccion)
	}
	if p.PasswordHash != nil {
		sets = append(sets, "contrasena = ?")
		args = append(args, *p.PasswordHash)
	}
	args = append(args, id)
	query := "UPDATE USUARIO SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}
