package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/config"
	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/repository"
	"github.com/gitat/party-rental-api/internal/utils"
)

// AdminUserHandler bundles dependencies for the admin user management
// endpoints.
type AdminUserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAdminUserHandler(cfg config.Config, u *repository.UserRepo) *AdminUserHandler {
	return &AdminUserHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type searchUserReq struct {
	Campo string `json:"campo"`
	Valor string `json:"valor"`
}

type postUserReq struct {
	Nombre    string  `json:"nombre"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Telefono  *string `json:"telefono"`
	Rol       string  `json:"rol"`
	Activo    *bool   `json:"activo"`
	Direccion *string `json:"direccion"`
}

type putUserReq struct {
	ID        uint64  `json:"id"`
	Nombre    *string `json:"nombre"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	Rol       *string `json:"rol"`
	Activo    *bool   `json:"activo"`
	Direccion *string `json:"direccion"`
	Password  *string `json:"password"`
}

type deleteUserReq struct {
	Email string `json:"email"`
}

// ListUsers returns every user for the admin table.
func (h *AdminUserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudieron obtener los usuarios", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, users)
}

// SearchUser finds users by exactly one criterion: id, email, nombre,
// telefono, rol or activo.
func (h *AdminUserHandler) SearchUser(c echo.Context) error {
	var req searchUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	req.Campo = strings.ToLower(strings.TrimSpace(req.Campo))
	req.Valor = strings.TrimSpace(req.Valor)
	if req.Campo == "" || req.Valor == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "campo y valor son obligatorios"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	switch req.Campo {
	case "id":
		id, err := strconv.ParseUint(req.Valor, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "id invalido"})
		}
		u, err := h.Users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusOK, []model.User{})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo buscar el usuario", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, []model.User{u})
	case "email", "nombre", "telefono", "rol":
		users, err := h.Users.Search(ctx, repository.SearchField(req.Campo), req.Valor)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo buscar el usuario", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, users)
	case "activo":
		activo := req.Valor == "1" || strings.EqualFold(req.Valor, "true")
		users, err := h.Users.Search(ctx, repository.SearchByActivo, activo)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo buscar el usuario", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, users)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "campo de busqueda no soportado"})
	}
}

// PostUser creates a user with an explicit role, used by admins to add
// staff accounts.
func (h *AdminUserHandler) PostUser(c echo.Context) error {
	var req postUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "nombre, email y password son obligatorios"})
	}
	switch req.Rol {
	case model.RoleClient, model.RoleEmployee, model.RoleAdmin:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "rol invalido"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo crear el usuario", "error": err.Error()})
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Users.CreateFull(ctx, model.User{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Rol:       req.Rol,
		Activo:    activo,
		Direccion: req.Direccion,
	}, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "el email ya esta registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo crear el usuario", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "usuario creado"})
}

// PutUser patches a user, writing only the fields that differ from the
// stored row.
func (h *AdminUserHandler) PutUser(c echo.Context) error {
	var req putUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id es obligatorio"})
	}
	if req.Rol != nil {
		switch *req.Rol {
		case model.RoleClient, model.RoleEmployee, model.RoleAdmin:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "rol invalido"})
		}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	current, err := h.Users.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar el usuario", "error": err.Error()})
	}

	patch := diffUser(current, req)
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar el usuario", "error": err.Error()})
		}
		patch.PasswordHash = &hash
	}
	if patch.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no hay cambios que aplicar"})
	}
	if err := h.Users.Update(ctx, req.ID, patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar el usuario", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "usuario actualizado"})
}

func diffUser(cur model.User, req putUserReq) model.UserPatch {
	var p model.UserPatch
	if req.Nombre != nil && *req.Nombre != cur.Nombre {
		p.Nombre = req.Nombre
	}
	if req.Email != nil && strings.ToLower(strings.TrimSpace(*req.Email)) != cur.Email {
		p.Email = req.Email
	}
	if req.Telefono != nil && (cur.Telefono == nil || *req.Telefono != *cur.Telefono) {
		p.Telefono = req.Telefono
	}
	if req.Rol != nil && *req.Rol != cur.Rol {
		p.Rol = req.Rol
	}
	if req.Activo != nil && *req.Activo != cur.Activo {
		p.Activo = req.Activo
	}
	if req.Direccion != nil && (cur.Direccion == nil || *req.Direccion != *cur.Direccion) {
		p.Direccion = req.Direccion
	}
	return p
}

// DeleteUser deactivates a user by email. The row stays for history; the
// session middleware rejects the account from then on.
func (h *AdminUserHandler) DeleteUser(c echo.Context) error {
	var req deleteUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	if strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email es obligatorio"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Deactivate(ctx, req.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo desactivar el usuario", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "usuario desactivado"})
}
