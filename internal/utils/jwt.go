package utils // package utils provides helpers for session token creation

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/gitat/party-rental-api/internal/model"
)

// SessionToken represents a signed HS256 JWT carried in the access_token
// cookie together with its expiry.  The expiry is fixed at issuance; the
// cookie's Max-Age mirrors it so browser and token expire together.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs a session JWT for a user.  The claims
// mirror what the frontend reads from the verification endpoint: subject
// (sub), display name (nombre), role (rol), active flag (activo), plus
// exp and iat.  Sensitive contact fields stay out of the token; callers
// needing them query by id.
func NewSessionToken(secret string, u model.User, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":    u.ID,
		"nombre": u.Nombre,
		"rol":    u.Rol,
		"activo": u.Activo,
		"exp":    exp.Unix(),
		"iat":    time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
