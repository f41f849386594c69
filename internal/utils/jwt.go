package utils // package utils provides helpers for token issuance and hashing

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AdminToken represents a signed JWT carrying the admin capability claim
// along with its expiry.  The Token field contains the JWT string.  Exp
// stores the expiration timestamp.  Admin tokens are sent in the
// Authorization header when calling admin-gated endpoints.
type AdminToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAdminToken builds and signs an HS256 JWT asserting the admin role.
// It takes the signing secret and a TTL in minutes and returns an
// AdminToken containing the signed token and its expiration time.  The
// JWT includes the role claim plus standard exp and iat claims; there is
// no subject because admin identity is a single out-of-band credential,
// not a modeled entity.
func NewAdminToken(secret string, ttlMin int) (AdminToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AdminToken{}, err
	}
	return AdminToken{Token: signed, Exp: exp}, nil
}
