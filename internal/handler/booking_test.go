package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxemuseum/booking-api/internal/model"
	"github.com/luxemuseum/booking-api/internal/queue"
	"github.com/luxemuseum/booking-api/internal/repository"
)

// fakeLedger stores bookings in memory and assigns IDs/timestamps the way
// the database would.
type fakeLedger struct {
	created []model.Booking
	byID    map[string]model.Booking
	err     error
}

func (f *fakeLedger) Create(_ context.Context, b *model.Booking) error {
	if f.err != nil {
		return f.err
	}
	b.ID = uint64(len(f.created) + 1)
	b.CreatedAt = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	f.created = append(f.created, *b)
	return nil
}

func (f *fakeLedger) GetByBookingID(_ context.Context, bookingID string) (*model.Booking, error) {
	if b, ok := f.byID[bookingID]; ok {
		return &b, nil
	}
	return nil, repository.ErrBookingNotFound
}

func (f *fakeLedger) ListByVisitor(_ context.Context, uid string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.created {
		if b.VisitorUID == uid {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeTypes resolves experiences by name.
type fakeTypes struct {
	byName map[string]model.TicketType
}

func (f *fakeTypes) GetByName(_ context.Context, name string) (*model.TicketType, error) {
	if t, ok := f.byName[name]; ok {
		return &t, nil
	}
	return nil, repository.ErrTicketTypeNotFound
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateBookingValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing ticket_type", `{"visitor_uid":"u1","date":"2026-09-05","quantity":1}`},
		{"missing visitor_uid", `{"ticket_type":"General Entry","date":"2026-09-05","quantity":1}`},
		{"missing date", `{"ticket_type":"General Entry","visitor_uid":"u1","quantity":1}`},
		{"zero quantity", `{"ticket_type":"General Entry","visitor_uid":"u1","date":"2026-09-05","quantity":0}`},
		{"negative amount", `{"ticket_type":"General Entry","visitor_uid":"u1","date":"2026-09-05","quantity":1,"total_amount":-1}`},
	}

	e := echo.New()
	h := NewBookingHandler(&fakeLedger{}, &fakeTypes{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(e, "/v1/bookings", tc.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestCreateBookingGeneratesIDAndForcesPaid(t *testing.T) {
	e := echo.New()
	ledger := &fakeLedger{}
	h := NewBookingHandler(ledger, &fakeTypes{})

	body := `{"ticket_type":"General Entry","visitor_uid":"u1","visitor_name":"Ada",
	          "date":"2026-09-05","quantity":2,"total_amount":400,
	          "guests":[{"name":"Ada","gender":"female","age":"30"}]}`
	c, rec := postJSON(e, "/v1/bookings", body)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, ledger.created, 1)
	got := ledger.created[0]
	assert.True(t, strings.HasPrefix(got.BookingID, "LMB-"))
	assert.Equal(t, model.BookingStatusPaid, got.Status)
	require.Len(t, got.Guests, 1)
	assert.Equal(t, "female", got.Guests[0].Gender)
}

func TestCreateBookingKeepsClientBookingID(t *testing.T) {
	e := echo.New()
	ledger := &fakeLedger{}
	h := NewBookingHandler(ledger, &fakeTypes{})

	body := `{"booking_id":"LMB-custom","ticket_type":"General Entry","visitor_uid":"u1","date":"2026-09-05","quantity":1}`
	c, rec := postJSON(e, "/v1/bookings", body)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, ledger.created, 1)
	assert.Equal(t, "LMB-custom", ledger.created[0].BookingID)
}

func TestCreateBookingPublishesEvent(t *testing.T) {
	e := echo.New()
	ledger := &fakeLedger{}
	h := NewBookingHandler(ledger, &fakeTypes{})

	var published []queue.BookingCreatedEvent
	h.PublishEvent = func(_ context.Context, ev queue.BookingCreatedEvent) error {
		published = append(published, ev)
		return nil
	}

	body := `{"ticket_type":"Digital Art Show","visitor_uid":"u1","date":"2026-09-05","quantity":3,"total_amount":1050}`
	c, rec := postJSON(e, "/v1/bookings", body)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, published, 1)
	assert.Equal(t, "Digital Art Show", published[0].TicketType)
	assert.Equal(t, int64(3), published[0].Quantity)
	assert.Equal(t, int64(1050), published[0].TotalAmount)
}

func TestCreateBookingSucceedsWhenPublishFails(t *testing.T) {
	// The booking is already paid for and persisted; a broker outage must
	// not fail the request.
	e := echo.New()
	h := NewBookingHandler(&fakeLedger{}, &fakeTypes{})
	h.PublishEvent = func(context.Context, queue.BookingCreatedEvent) error {
		return assert.AnError
	}

	body := `{"ticket_type":"General Entry","visitor_uid":"u1","date":"2026-09-05","quantity":1}`
	c, rec := postJSON(e, "/v1/bookings", body)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListByVisitorUnknownUIDIsEmpty(t *testing.T) {
	e := echo.New()
	h := NewBookingHandler(&fakeLedger{}, &fakeTypes{})

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/nobody", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues("nobody")
	require.NoError(t, h.ListByVisitor(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success  bool              `json:"success"`
		Bookings []json.RawMessage `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Bookings)
}

func TestVerifyTicketNotFound(t *testing.T) {
	e := echo.New()
	h := NewBookingHandler(&fakeLedger{byID: map[string]model.Booking{}}, &fakeTypes{})

	req := httptest.NewRequest(http.MethodGet, "/v1/verify-ticket/LMB-missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("bookingId")
	c.SetParamValues("LMB-missing")
	require.NoError(t, h.VerifyTicket(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired ticket")
}

func TestVerifyTicketResolvesExperience(t *testing.T) {
	e := echo.New()
	ledger := &fakeLedger{byID: map[string]model.Booking{
		"LMB-1": {BookingID: "LMB-1", TicketType: "Egyptian Mystique", Quantity: 2},
	}}
	types := &fakeTypes{byName: map[string]model.TicketType{
		"Egyptian Mystique": {Name: "Egyptian Mystique", Description: "Premium exhibit of the Pharaohs", Category: model.CategoryExhibit, Price: 500},
	}}
	h := NewBookingHandler(ledger, types)

	req := httptest.NewRequest(http.MethodGet, "/v1/verify-ticket/LMB-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("bookingId")
	c.SetParamValues("LMB-1")
	require.NoError(t, h.VerifyTicket(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Premium exhibit of the Pharaohs")
}

func TestVerifyTicketFallsBackWhenTypeDeleted(t *testing.T) {
	e := echo.New()
	ledger := &fakeLedger{byID: map[string]model.Booking{
		"LMB-1": {BookingID: "LMB-1", TicketType: "Retired Exhibit", Quantity: 1},
	}}
	h := NewBookingHandler(ledger, &fakeTypes{})

	req := httptest.NewRequest(http.MethodGet, "/v1/verify-ticket/LMB-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("bookingId")
	c.SetParamValues("LMB-1")
	require.NoError(t, h.VerifyTicket(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "General museum experience")
}
