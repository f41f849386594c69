// Package handler exposes HTTP handlers for the booking API.  This file
// covers the booking ledger surface: finalizing a paid booking, listing a
// visitor's booking history and admin ticket verification.
package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/luxemuseum/booking-api/internal/model"
	"github.com/luxemuseum/booking-api/internal/queue"
	"github.com/luxemuseum/booking-api/internal/repository"
)

// Ledger is the slice of the booking repository the handlers need.
type Ledger interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error)
	ListByVisitor(ctx context.Context, uid string) ([]model.Booking, error)
}

// ExperienceReader resolves ticket types by name for ticket verification.
type ExperienceReader interface {
	GetByName(ctx context.Context, name string) (*model.TicketType, error)
}

// BookingHandler bundles dependencies for the booking endpoints.
// PublishEvent is invoked after a successful ledger write; a nil value
// disables event publishing and a failed publish is logged and ignored,
// since the booking is already paid for and persisted.
type BookingHandler struct {
	Ledger       Ledger
	Types        ExperienceReader
	PublishEvent func(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// NewBookingHandler constructs a BookingHandler over the given stores.
func NewBookingHandler(ledger Ledger, types ExperienceReader) *BookingHandler {
	return &BookingHandler{Ledger: ledger, Types: types}
}

// ----- DTOs -----

type guestReq struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    string `json:"age"`
}

type createBookingReq struct {
	BookingID       string     `json:"booking_id"`
	VisitorUID      string     `json:"visitor_uid"`
	VisitorName     string     `json:"visitor_name"`
	TicketType      string     `json:"ticket_type"`
	Date            string     `json:"date"`
	Quantity        int64      `json:"quantity"`
	TotalAmount     int64      `json:"total_amount"`
	Language        string     `json:"language"`
	Guests          []guestReq `json:"guests"`
	RazorpayOrderID string     `json:"razorpay_order_id"`
	PaymentID       string     `json:"payment_id"`
}

type guestJSON struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    string `json:"age"`
}

type bookingJSON struct {
	BookingID       string      `json:"booking_id"`
	VisitorUID      string      `json:"visitor_uid"`
	VisitorName     string      `json:"visitor_name"`
	TicketType      string      `json:"ticket_type"`
	Date            string      `json:"date"`
	Quantity        int64       `json:"quantity"`
	TotalAmount     int64       `json:"total_amount"`
	Status          string      `json:"status"`
	Language        string      `json:"language,omitempty"`
	Guests          []guestJSON `json:"guests,omitempty"`
	RazorpayOrderID string      `json:"razorpay_order_id,omitempty"`
	PaymentID       string      `json:"payment_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

func toBookingJSON(b model.Booking) bookingJSON {
	out := bookingJSON{
		BookingID:       b.BookingID,
		VisitorUID:      b.VisitorUID,
		VisitorName:     b.VisitorName,
		TicketType:      b.TicketType,
		Date:            b.Date,
		Quantity:        b.Quantity,
		TotalAmount:     b.TotalAmount,
		Status:          b.Status,
		Language:        b.Language,
		RazorpayOrderID: b.RazorpayOrderID,
		PaymentID:       b.PaymentID,
		CreatedAt:       b.CreatedAt,
	}
	for _, g := range b.Guests {
		out.Guests = append(out.Guests, guestJSON{Name: g.Name, Gender: g.Gender, Age: g.Age})
	}
	return out
}

func toBookingJSONList(bookings []model.Booking) []bookingJSON {
	out := make([]bookingJSON, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingJSON(b))
	}
	return out
}

// Create finalizes a paid booking: it validates the request, appends the
// entry to the ledger with status Paid, and publishes a booking.created
// event.  Capacity is deliberately NOT checked here: payment has already
// been confirmed upstream and the ledger honors it even when the write
// pushes consumption past the daily limit.  Availability and analytics
// pick the new entry up on their next scan.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	req.TicketType = strings.TrimSpace(req.TicketType)
	req.VisitorUID = strings.TrimSpace(req.VisitorUID)
	req.Date = strings.TrimSpace(req.Date)
	switch {
	case req.TicketType == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "ticket_type required"})
	case req.VisitorUID == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "visitor_uid required"})
	case req.Date == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "date required"})
	case req.Quantity < 1:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "quantity must be positive"})
	case req.TotalAmount < 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "total_amount must not be negative"})
	}

	bookingID := strings.TrimSpace(req.BookingID)
	if bookingID == "" {
		bookingID = "LMB-" + uuid.NewString()
	}

	b := model.Booking{
		BookingID:       bookingID,
		VisitorUID:      req.VisitorUID,
		VisitorName:     req.VisitorName,
		TicketType:      req.TicketType,
		Date:            req.Date,
		Quantity:        req.Quantity,
		TotalAmount:     req.TotalAmount,
		Status:          model.BookingStatusPaid,
		Language:        req.Language,
		RazorpayOrderID: req.RazorpayOrderID,
		PaymentID:       req.PaymentID,
	}
	for _, g := range req.Guests {
		b.Guests = append(b.Guests, model.Guest{Name: g.Name, Gender: g.Gender, Age: g.Age})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Ledger.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "create booking failed"})
	}

	if h.PublishEvent != nil {
		ev := queue.BookingCreatedEvent{
			BookingID:   b.BookingID,
			VisitorUID:  b.VisitorUID,
			VisitorName: b.VisitorName,
			TicketType:  b.TicketType,
			Date:        b.Date,
			Quantity:    b.Quantity,
			TotalAmount: b.TotalAmount,
			CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := h.PublishEvent(ctx, ev); err != nil {
			log.Printf("booking: publish event failed for %s: %v", b.BookingID, err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "booking": toBookingJSON(b)})
}

// ListByVisitor returns the booking history for one visitor uid, newest
// first.  An unknown uid yields an empty list, not an error.
func (h *BookingHandler) ListByVisitor(c echo.Context) error {
	uid := c.Param("uid")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	bookings, err := h.Ledger.ListByVisitor(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": toBookingJSONList(bookings)})
}

// VerifyTicket resolves a booking id presented at the museum entrance and
// returns the booking together with its experience details.  When the
// ticket type has since been deleted, a generic experience description is
// returned so the gate staff still sees something sensible.
func (h *BookingHandler) VerifyTicket(c echo.Context) error {
	bookingID := c.Param("bookingId")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Ledger.GetByBookingID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "invalid or expired ticket"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}

	experience := echo.Map{"description": "General museum experience"}
	if t, err := h.Types.GetByName(ctx, b.TicketType); err == nil {
		experience = echo.Map{
			"name":        t.Name,
			"description": t.Description,
			"category":    t.Category,
			"price":       t.Price,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"booking":    toBookingJSON(*b),
		"experience": experience,
	})
}
