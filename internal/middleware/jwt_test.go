package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitat/party-rental-api/internal/model"
	"github.com/gitat/party-rental-api/internal/utils"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id"), "rol": c.Get("rol")})
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, cookie *http.Cookie, pre func(echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if pre != nil {
		pre(c)
	}
	err := mw(okHandler)(c)
	require.NoError(t, err)
	return rec
}

func TestJWTAuthRejectsMissingCookie(t *testing.T) {
	rec := doRequest(t, JWTAuth(testSecret), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	rec := doRequest(t, JWTAuth(testSecret), &http.Cookie{Name: SessionCookie, Value: "not-a-jwt"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewSessionToken("other-secret", model.User{ID: 1, Nombre: "Ana", Rol: model.RoleClient, Activo: true}, 60)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth(testSecret), &http.Cookie{Name: SessionCookie, Value: tok.Token}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsDeactivatedAccount(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, model.User{ID: 1, Nombre: "Ana", Rol: model.RoleClient, Activo: false}, 60)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth(testSecret), &http.Cookie{Name: SessionCookie, Value: tok.Token}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, model.User{ID: 42, Nombre: "Ana", Rol: model.RoleEmployee, Activo: true}, 60)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var gotRol string
	next := func(c echo.Context) error {
		gotID, _ = c.Get("user_id").(uint64)
		gotRol, _ = c.Get("rol").(string)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(testSecret)(next)(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), gotID)
	assert.Equal(t, model.RoleEmployee, gotRol)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(model.RoleEmployee, model.RoleAdmin)

	rec := doRequest(t, mw, nil, func(c echo.Context) { c.Set("rol", model.RoleClient) })
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, mw, nil, nil) // no role at all
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, mw, nil, func(c echo.Context) { c.Set("rol", model.RoleAdmin) })
	assert.Equal(t, http.StatusOK, rec.Code)
}
