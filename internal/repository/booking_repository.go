package repository

import (
	"context"
	"database/sql"

	"github.com/luxemuseum/booking-api/internal/model"
)

// BookingRepo provides access to the booking ledger and its guest
// sub-records.  The ledger is append-only from this service's
// perspective: Create is the sole mutation path, and every availability
// or analytics figure is re-derived from these rows at read time.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, booking_id, visitor_uid, visitor_name, ticket_type, visit_date,
        quantity, total_amount, status, language, razorpay_order_id, payment_id, created_at`

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.BookingID, &b.VisitorUID, &b.VisitorName, &b.TicketType, &b.Date,
		&b.Quantity, &b.TotalAmount, &b.Status, &b.Language, &b.RazorpayOrderID, &b.PaymentID, &b.CreatedAt)
	return b, err
}

// Create appends a booking and its guest sub-records inside a single
// transaction.  The generated ID and database-assigned CreatedAt are
// populated on the provided record.  No capacity check is performed here:
// payment has already been confirmed upstream and the ledger honors it
// even past the daily limit.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO bookings
               (booking_id, visitor_uid, visitor_name, ticket_type, visit_date,
                quantity, total_amount, status, language, razorpay_order_id, payment_id)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.BookingID, b.VisitorUID, b.VisitorName, b.TicketType, b.Date,
		b.Quantity, b.TotalAmount, b.Status, b.Language, b.RazorpayOrderID, b.PaymentID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const guestQ = "INSERT INTO booking_guests (booking_id, name, gender, age) VALUES (?, ?, ?, ?)"
	for i := range b.Guests {
		g := &b.Guests[i]
		gres, err := tx.ExecContext(ctx, guestQ, b.ID, g.Name, g.Gender, g.Age)
		if err != nil {
			return err
		}
		gid, err := gres.LastInsertId()
		if err != nil {
			return err
		}
		g.ID = uint64(gid)
		g.BookingID = b.ID
	}

	const sel = "SELECT created_at FROM bookings WHERE id = ?"
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByBookingID fetches a booking by its externally presented identifier
// and attaches its guests.  Missing rows map to ErrBookingNotFound.
func (r *BookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE booking_id = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	list := []model.Booking{b}
	if err := r.attachGuests(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ListByVisitor returns every booking owned by the given visitor uid,
// newest first, with guests attached.
func (r *BookingRepo) ListByVisitor(ctx context.Context, uid string) ([]model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE visitor_uid = ? ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := collectBookings(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachGuests(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecent returns the most recently created bookings, newest first,
// with guests attached.  Used by the admin analytics view.
func (r *BookingRepo) ListRecent(ctx context.Context, limit int) ([]model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings ORDER BY created_at DESC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := collectBookings(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachGuests(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// attachGuests loads guest sub-records for each booking in place.  One
// query per booking keeps the code simple; booking lists are small
// (visitor history, ten recent bookings).
func (r *BookingRepo) attachGuests(ctx context.Context, bookings []model.Booking) error {
	const q = "SELECT id, booking_id, name, gender, age FROM booking_guests WHERE booking_id = ? ORDER BY id"
	for i := range bookings {
		rows, err := r.db.QueryContext(ctx, q, bookings[i].ID)
		if err != nil {
			return err
		}
		var guests []model.Guest
		for rows.Next() {
			var g model.Guest
			if err := rows.Scan(&g.ID, &g.BookingID, &g.Name, &g.Gender, &g.Age); err != nil {
				rows.Close()
				return err
			}
			guests = append(guests, g)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
		bookings[i].Guests = guests
	}
	return nil
}

// ConsumedQuantity sums the guest quantities of paid bookings for one
// (ticket type, date) slot.  The date is matched as an opaque string key.
func (r *BookingRepo) ConsumedQuantity(ctx context.Context, typeName, date string) (int64, error) {
	const q = `SELECT COALESCE(SUM(quantity), 0) FROM bookings
               WHERE ticket_type = ? AND visit_date = ? AND status = ?`
	var n int64
	err := r.db.QueryRowContext(ctx, q, typeName, date, model.BookingStatusPaid).Scan(&n)
	return n, err
}

// ConsumedOnDate returns per-type consumption for one date as a map of
// ticket type name to summed quantity.  One grouped scan serves the
// whole annotated catalog listing.
func (r *BookingRepo) ConsumedOnDate(ctx context.Context, date string) (map[string]int64, error) {
	const q = `SELECT ticket_type, COALESCE(SUM(quantity), 0) FROM bookings
               WHERE visit_date = ? AND status = ? GROUP BY ticket_type`
	rows, err := r.db.QueryContext(ctx, q, date, model.BookingStatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, rows.Err()
}

// ConsumedByDate returns per-date consumption for one ticket type as a
// map of date key to summed quantity.  All statuses are counted; the
// ledger only ever contains paid rows.  Used by the slot projection.
func (r *BookingRepo) ConsumedByDate(ctx context.Context, typeName string) (map[string]int64, error) {
	const q = `SELECT visit_date, COALESCE(SUM(quantity), 0) FROM bookings
               WHERE ticket_type = ? GROUP BY visit_date`
	rows, err := r.db.QueryContext(ctx, q, typeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var date string
		var n int64
		if err := rows.Scan(&date, &n); err != nil {
			return nil, err
		}
		out[date] = n
	}
	return out, rows.Err()
}

// TotalSales sums total_amount across the whole ledger.
func (r *BookingRepo) TotalSales(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(total_amount), 0) FROM bookings").Scan(&n)
	return n, err
}

// Count returns the number of ledger entries.
func (r *BookingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&n)
	return n, err
}

// DistinctVisitorCount returns how many distinct visitor identities own
// at least one booking.  Numerator of the conversion rate.
func (r *BookingRepo) DistinctVisitorCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT visitor_uid) FROM bookings").Scan(&n)
	return n, err
}

// GuestGenderCounts flattens every guest sub-record into a lower-cased
// gender frequency map.  Classification into canonical buckets happens in
// the analytics package, keeping the vocabulary out of SQL.
func (r *BookingRepo) GuestGenderCounts(ctx context.Context) (map[string]int64, error) {
	const q = "SELECT LOWER(gender), COUNT(*) FROM booking_guests GROUP BY LOWER(gender)"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var gender string
		var n int64
		if err := rows.Scan(&gender, &n); err != nil {
			return nil, err
		}
		out[gender] = n
	}
	return out, rows.Err()
}

// TotalGuests sums quantity across all bookings.  Deliberately independent
// of the guest sub-record count: quantity is the capacity-consumption
// figure, and the two may diverge when guest demographics are missing.
func (r *BookingRepo) TotalGuests(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(quantity), 0) FROM bookings").Scan(&n)
	return n, err
}
