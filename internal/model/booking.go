package model

import "time"

// BookingStatusPaid is the only status this service ever writes.  A booking
// with this status is an immutable consumption of capacity for its
// (ticket type, date) pair.  Cancellation and refunds are handled outside
// this system.
const BookingStatusPaid = "Paid"

// Booking is one entry in the paid booking ledger.  The ledger is
// append-only from this service's perspective: availability and analytics
// are always re-derived from these rows, never from cached counters.
//
// Date is the raw calendar-day string supplied by the client (expected
// YYYY-MM-DD).  It is used as an opaque capacity-accounting key and is
// never parsed or validated; an unparseable value simply matches no
// bookings.
//
// Quantity is the number of guests/units consumed.  Guests may carry
// per-guest demographics; Quantity is not required to match len(Guests).
type Booking struct {
	ID              uint64    // bookings.id
	BookingID       string    // bookings.booking_id, externally presented ticket identifier
	VisitorUID      string    // bookings.visitor_uid
	VisitorName     string    // bookings.visitor_name
	TicketType      string    // bookings.ticket_type (type name, not a foreign key)
	Date            string    // bookings.visit_date
	Quantity        int64     // bookings.quantity
	TotalAmount     int64     // bookings.total_amount
	Status          string    // bookings.status
	Language        string    // bookings.language
	Guests          []Guest   // booking_guests rows
	RazorpayOrderID string    // bookings.razorpay_order_id
	PaymentID       string    // bookings.payment_id
	CreatedAt       time.Time // bookings.created_at
}

// Guest is a per-guest sub-record attached to a booking.  Gender is
// free text, possibly localized; the analytics aggregator classifies it
// against a fixed vocabulary.  Age is kept as text because it arrives
// unvalidated from booking forms.
type Guest struct {
	ID        uint64 // booking_guests.id
	BookingID uint64 // booking_guests.booking_id
	Name      string // booking_guests.name
	Gender    string // booking_guests.gender
	Age       string // booking_guests.age
}
