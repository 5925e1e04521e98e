package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/config"
	"github.com/gitat/party-rental-api/internal/middleware"
	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/repository"
	"github.com/gitat/party-rental-api/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Nombre   string  `json:"nombre"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Telefono *string `json:"telefono"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type profileReq struct {
	Nombre    *string `json:"nombre"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	Password  *string `json:"password"`
}

type sessionUser struct {
	ID     uint64 `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Activo bool   `json:"activo"`
}

// setSessionCookie writes the HTTP-only session cookie.  Max-Age mirrors
// the token expiry so browser and JWT expire together.
func (h *AuthHandler) setSessionCookie(c echo.Context, tok utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(time.Until(tok.Exp) / time.Second),
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

// Register creates a client account and opens a session right away.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "nombre, email y password son obligatorios"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo registrar el usuario", "error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Nombre, req.Email, hash, req.Telefono)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "el email ya esta registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo registrar el usuario", "error": err.Error()})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo iniciar sesion", "error": err.Error()})
	}
	h.setSessionCookie(c, tok)

	return c.JSON(http.StatusCreated, sessionUser{
		ID: u.ID, Nombre: u.Nombre, Email: u.Email, Rol: u.Rol, Activo: u.Activo,
	})
}

// Login verifies credentials and sets the session cookie.  Unknown email
// and wrong password return the same message so the endpoint does not
// reveal which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email y password son obligatorios"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "credenciales incorrectas"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo iniciar sesion", "error": err.Error()})
	}
	if !u.Activo {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "cuenta desactivada"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "credenciales incorrectas"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo iniciar sesion", "error": err.Error()})
	}
	h.setSessionCookie(c, tok)

	return c.JSON(http.StatusOK, sessionUser{
		ID: u.ID, Nombre: u.Nombre, Email: u.Email, Rol: u.Rol, Activo: u.Activo,
	})
}

// Session returns the current user behind a valid cookie.  The frontend
// calls it on load to restore its auth state.
func (h *AuthHandler) Session(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "no autenticado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo verificar la sesion", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, sessionUser{
		ID: u.ID, Nombre: u.Nombre, Email: u.Email, Rol: u.Rol, Activo: u.Activo,
	})
}

// Logout clears the session cookie.  Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "sesion cerrada"})
}

// UpdateProfile lets the authenticated user change their own name,
// phone, address or password.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cuerpo de la peticion invalido"})
	}

	patch := model.UserPatch{
		Nombre:    req.Nombre,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	}
	if req.Password != nil {
		if *req.Password == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "el password no puede estar vacio"})
		}
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar el perfil", "error": err.Error()})
		}
		patch.PasswordHash = &hash
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Update(ctx, currentUserID(c), patch); err != nil {
		if errors.Is(err, repository.ErrNoChanges) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "no hay cambios que aplicar"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "no se pudo actualizar el perfil", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "perfil actualizado"})
}
