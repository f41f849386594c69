// This file defines handlers for the experience catalog: the public
// listing (optionally annotated with per-date availability) and the
// admin-gated mutation and capacity-planning endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luxemuseum/booking-api/internal/inventory"
	"github.com/luxemuseum/booking-api/internal/model"
	"github.com/luxemuseum/booking-api/internal/repository"
)

// Catalog is the slice of the ticket type repository the handlers need.
type Catalog interface {
	Create(ctx context.Context, t *model.TicketType) error
	GetByID(ctx context.Context, id uint64) (*model.TicketType, error)
	ListActive(ctx context.Context) ([]model.TicketType, error)
	Update(ctx context.Context, t *model.TicketType) error
	Delete(ctx context.Context, id uint64) error
}

// TicketTypeHandler bundles dependencies for catalog endpoints.
type TicketTypeHandler struct {
	Catalog Catalog
	Engine  *inventory.Engine
}

// NewTicketTypeHandler constructs a TicketTypeHandler.
func NewTicketTypeHandler(catalog Catalog, engine *inventory.Engine) *TicketTypeHandler {
	return &TicketTypeHandler{Catalog: catalog, Engine: engine}
}

// ----- DTOs -----

// ticketTypeJSON is the public catalog row.  Available is present only
// when the listing was annotated for a specific date; the plain listing
// deliberately skips the ledger scan and carries no availability.
type ticketTypeJSON struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	DailyLimit  int64     `json:"daily_limit"`
	CreatedAt   time.Time `json:"created_at"`
	Available   *int64    `json:"available,omitempty"`
}

func toTicketTypeJSON(t model.TicketType, available *int64) ticketTypeJSON {
	return ticketTypeJSON{
		ID:          t.ID,
		Name:        t.Name,
		Price:       t.Price,
		Description: t.Description,
		Category:    t.Category,
		IsActive:    t.IsActive,
		DailyLimit:  t.DailyLimit,
		CreatedAt:   t.CreatedAt,
		Available:   available,
	}
}

type createTicketTypeReq struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
	DailyLimit  *int64 `json:"daily_limit"`
}

type updateTicketTypeReq struct {
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"is_active"`
	DailyLimit  *int64  `json:"daily_limit"`
}

// List returns the active catalog.  With a ?date= query parameter each
// row is annotated with the remaining capacity for that date; without one
// the raw rows are returned. The plain listing is the cheap path and the
// only catalog response eligible for the Redis cache.
func (h *TicketTypeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	date := c.QueryParam("date")
	if date == "" {
		types, err := h.Catalog.ListActive(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
		}
		out := make([]ticketTypeJSON, 0, len(types))
		for _, t := range types {
			out = append(out, toTicketTypeJSON(t, nil))
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "types": out})
	}

	annotated, err := h.Engine.AnnotateAvailability(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}
	out := make([]ticketTypeJSON, 0, len(annotated))
	for _, a := range annotated {
		avail := a.Available
		out = append(out, toTicketTypeJSON(a.TicketType, &avail))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "types": out})
}

// Create adds a new experience to the catalog (admin only).  Category
// defaults to Show, active to true and the daily limit to 100, matching
// the storefront's historical defaults.
func (h *TicketTypeHandler) Create(c echo.Context) error {
	var req createTicketTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "price must not be negative"})
	}

	t := model.TicketType{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    model.CategoryShow,
		IsActive:    true,
		DailyLimit:  100,
	}
	if req.Category != "" {
		t.Category = req.Category
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.DailyLimit != nil {
		if *req.DailyLimit < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "daily_limit must be positive"})
		}
		t.DailyLimit = *req.DailyLimit
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Catalog.Create(ctx, &t); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "type": toTicketTypeJSON(t, nil)})
}

// Update applies a partial update to an experience (admin only).  Absent
// fields keep their stored values.
func (h *TicketTypeHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid id"})
	}
	var req updateTicketTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Catalog.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrTicketTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "experience not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name must not be empty"})
		}
		t.Name = name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "price must not be negative"})
		}
		t.Price = *req.Price
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.DailyLimit != nil {
		if *req.DailyLimit < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "daily_limit must be positive"})
		}
		t.DailyLimit = *req.DailyLimit
	}

	if err := h.Catalog.Update(ctx, t); err != nil {
		switch err {
		case repository.ErrNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "name already exists"})
		case repository.ErrTicketTypeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "experience not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "type": toTicketTypeJSON(*t, nil)})
}

// Delete removes an experience from the catalog (admin only).  Historical
// ledger entries keep referencing the name and still count toward
// analytics; only future availability lookups will fail to resolve it.
func (h *TicketTypeHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Catalog.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "experience removed"})
}

// Slots returns the 30-day capacity projection for one experience (admin
// only): for each day starting today, the daily limit, the quantity
// already booked and the remainder.
func (h *TicketTypeHandler) Slots(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, slots, err := h.Engine.ProjectSlots(ctx, id, inventory.DefaultHorizonDays)
	if err != nil {
		if err == repository.ErrTicketTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "experience not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"slots":          slots,
		"experienceName": t.Name,
	})
}
