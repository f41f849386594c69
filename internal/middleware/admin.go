package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware
)

// AdminAuth returns an Echo middleware that gates a route behind the
// admin capability.  It verifies a Bearer HS256 token signed with the
// provided secret and requires the token's "role" claim to be "admin".
// The check is stateless: there is no session store, only the token
// predicate.  On success the verified capability is stored in the
// request context under "role" so handlers can assert it if needed.
//
// Responses follow the uniform failure shape: 401 with
// {"success": false, "error": ...} before the store is ever touched.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Reject any signing method other than HMAC.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid admin token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid admin token"})
			}
			if role, _ := claims["role"].(string); role != "admin" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid admin token"})
			}

			c.Set("role", "admin")
			return next(c)
		}
	}
}
