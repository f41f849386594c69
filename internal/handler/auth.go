package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luxemuseum/booking-api/internal/config"
	"github.com/luxemuseum/booking-api/internal/model"
	"github.com/luxemuseum/booking-api/internal/utils"
)

// VisitorStore is the slice of the visitor repository the auth endpoints
// need.
type VisitorStore interface {
	Upsert(ctx context.Context, uid, email, name, picture string) (*model.Visitor, error)
}

// AuthHandler bundles dependencies for identity sync and admin login.
type AuthHandler struct {
	Cfg      config.Config
	Visitors VisitorStore
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config, visitors VisitorStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Visitors: visitors}
}

// ----- DTOs -----

type syncReq struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type adminLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type visitorJSON struct {
	UID        string    `json:"uid"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Picture    string    `json:"picture,omitempty"`
	Role       string    `json:"role"`
	LastActive time.Time `json:"last_active"`
}

// Sync upserts a visitor identity from the external identity provider.
// The first sync creates the record; every subsequent sync refreshes
// name, picture and the liveness timestamp consumed by analytics.
func (h *AuthHandler) Sync(c echo.Context) error {
	var req syncReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	req.UID = strings.TrimSpace(req.UID)
	if req.UID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "uid required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	v, err := h.Visitors.Upsert(ctx, req.UID, req.Email, req.Name, req.Picture)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "sync failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "visitor": visitorJSON{
		UID:        v.UID,
		Email:      v.Email,
		Name:       v.Name,
		Picture:    v.Picture,
		Role:       v.Role,
		LastActive: v.LastActive,
	}})
}

// AdminLogin checks the single out-of-band admin credential pair and, on
// success, issues a signed capability token asserting the admin role.
// There is no admin entity in the store; the token is the whole identity.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}

	if req.Username != h.Cfg.AdminEmail || !utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid credentials"})
	}

	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, h.Cfg.AdminTokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": tok.Token, "expires": tok.Exp})
}
