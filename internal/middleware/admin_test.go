package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxemuseum/booking-api/internal/utils"
)

const testSecret = "test-secret"

func runAdminAuth(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/analytics", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := AdminAuth(testSecret)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})
	require.NoError(t, handler(c))
	return rec
}

func TestAdminAuthAcceptsIssuedToken(t *testing.T) {
	tok, err := utils.NewAdminToken(testSecret, 60)
	require.NoError(t, err)

	rec := runAdminAuth(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthRejectsMissingHeader(t *testing.T) {
	rec := runAdminAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestAdminAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAdminToken("another-secret", 60)
	require.NoError(t, err)

	rec := runAdminAuth(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsNonAdminRole(t *testing.T) {
	claims := jwt.MapClaims{"role": "visitor"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := runAdminAuth(t, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsMalformedToken(t *testing.T) {
	rec := runAdminAuth(t, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
