package middleware // reusable HTTP middleware for the API routes

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the name of the HTTP-only cookie carrying the session
// token. The auth handler sets it on login and clears it on logout.
const SessionCookie = "access_token"

// JWTAuth returns an Echo middleware that validates the session cookie
// and injects the token's claims into the request context. The provided
// secret must match the one used when issuing tokens. Handlers behind it
// read the authenticated user via c.Get("user_id"), c.Get("nombre"),
// c.Get("rol") and c.Get("activo").
//
// A deactivated account carries activo=false in its still-valid token;
// those requests are rejected here so the logical delete takes effect
// without waiting for the token to expire.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "no autenticado"})
			}

			tok, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
				// Accept HMAC only; any other method means a forged token.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "sesion invalida o expirada"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "sesion invalida o expirada"})
			}

			activo, _ := claims["activo"].(bool)
			if !activo {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "cuenta desactivada"})
			}

			// sub arrives as float64 after JSON decoding; normalize once
			// here so handlers get a uint64.
			sub, _ := claims["sub"].(float64)
			c.Set("user_id", uint64(sub))
			c.Set("nombre", claims["nombre"])
			c.Set("rol", claims["rol"])
			c.Set("activo", activo)
			return next(c)
		}
	}
}
