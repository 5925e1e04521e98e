package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitat/party-rental-api/internal/repository"
)

// Validation rejects a malformed booking before any repository or
// pricing call, so a handler without dependencies is enough here.
func postReservation(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := &ReservationHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/reservation", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	require.NoError(t, h.Create(c))
	return rec
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	rec := postReservation(t, `{"tipo_reserva":"fiesta","fecha_inicio":"2026-05-01","fecha_fin":"2026-05-02","telefono_contacto":"555","direccion_evento":"x","metodo_pago":"efectivo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsBadDates(t *testing.T) {
	rec := postReservation(t, `{"tipo_reserva":"privado","fecha_inicio":"01/05/2026","fecha_fin":"2026-05-02","telefono_contacto":"555","direccion_evento":"x","metodo_pago":"efectivo","items":[{"inventario_general_id":1,"cantidad":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsPrivateWithoutItems(t *testing.T) {
	rec := postReservation(t, `{"tipo_reserva":"privado","fecha_inicio":"2026-05-01","fecha_fin":"2026-05-02","telefono_contacto":"555","direccion_evento":"x","metodo_pago":"efectivo","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsPrivateWithRoom(t *testing.T) {
	// A private event happens off-site; a body carrying both a private
	// kind and a salon id is contradictory and must not book anything.
	rec := postReservation(t, `{"tipo_reserva":"privado","fecha_inicio":"2026-05-01","fecha_fin":"2026-05-02","telefono_contacto":"555","direccion_evento":"x","metodo_pago":"efectivo","items":[{"inventario_general_id":1,"cantidad":1}],"salon_id":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The frontend renders the message field of every failure body.
	assert.Contains(t, rec.Body.String(), `"message"`)
}

func TestCreateRejectsSalonWithoutRoom(t *testing.T) {
	rec := postReservation(t, `{"tipo_reserva":"salon","fecha_inicio":"2026-05-01","fecha_fin":"2026-05-02","telefono_contacto":"555","direccion_evento":"x","metodo_pago":"efectivo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	rec := postReservation(t, `{"tipo_reserva":"privado","fecha_inicio":"2026-05-01","fecha_fin":"2026-05-02","telefono_contacto":"555","direccion_evento":"x","metodo_pago":"efectivo","items":[{"inventario_general_id":1,"cantidad":0}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsMissingContact(t *testing.T) {
	rec := postReservation(t, `{"tipo_reserva":"privado","fecha_inicio":"2026-05-01","fecha_fin":"2026-05-02","direccion_evento":"x","metodo_pago":"efectivo","items":[{"inventario_general_id":1,"cantidad":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiffReservationKeepsOnlyChanges(t *testing.T) {
	tel := "5551234"
	same := "5550000"
	estado := "confirmado"
	cur := repository.ContactInfo{ID: 5, TelefonoContacto: same, Estado: "pendiente"}

	p := diffReservation(cur, updateInfoReq{
		TelefonoContacto: &tel,
		Estado:           &estado,
	})
	require.NotNil(t, p.TelefonoContacto)
	assert.Equal(t, tel, *p.TelefonoContacto)
	require.NotNil(t, p.Estado)

	// Same values produce an empty patch.
	p = diffReservation(cur, updateInfoReq{
		TelefonoContacto: &same,
		Estado:           &cur.Estado,
	})
	assert.True(t, p.Empty())
}
