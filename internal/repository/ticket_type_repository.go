package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/luxemuseum/booking-api/internal/model"
)

// TicketTypeRepo provides CRUD operations over the ticket type catalog.
// The catalog is the source of capacity (daily_limit) consulted by the
// availability engine and of pricing shown on the storefront.  All
// methods accept a context so callers can bound query time.
type TicketTypeRepo struct {
	db *sql.DB
}

// NewTicketTypeRepo returns a new TicketTypeRepo bound to the given database.
func NewTicketTypeRepo(db *sql.DB) *TicketTypeRepo { return &TicketTypeRepo{db: db} }

const ticketTypeColumns = "id, name, price, description, category, is_active, daily_limit, created_at"

func scanTicketType(row interface {
	Scan(dest ...interface{}) error
}) (model.TicketType, error) {
	var t model.TicketType
	var desc sql.NullString
	err := row.Scan(&t.ID, &t.Name, &t.Price, &desc, &t.Category, &t.IsActive, &t.DailyLimit, &t.CreatedAt)
	t.Description = desc.String
	return t, err
}

// Create inserts a new ticket type and populates the generated ID and
// CreatedAt on the provided record.  A duplicate name maps to
// ErrNameExists (MySQL error 1062).
func (r *TicketTypeRepo) Create(ctx context.Context, t *model.TicketType) error {
	const q = `INSERT INTO ticket_types (name, price, description, category, is_active, daily_limit)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Price, t.Description, t.Category, t.IsActive, t.DailyLimit)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	// Follow-up SELECT to populate the database-assigned created_at.
	const qSelect = "SELECT created_at FROM ticket_types WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.CreatedAt)
}

// GetByID fetches a ticket type by primary key.  Missing rows map to
// ErrTicketTypeNotFound.
func (r *TicketTypeRepo) GetByID(ctx context.Context, id uint64) (*model.TicketType, error) {
	const q = "SELECT " + ticketTypeColumns + " FROM ticket_types WHERE id = ?"
	t, err := scanTicketType(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrTicketTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByName fetches a ticket type by its display name.  Bookings reference
// types by name, so this is the lookup used by the availability engine and
// by ticket verification.  Missing rows map to ErrTicketTypeNotFound.
func (r *TicketTypeRepo) GetByName(ctx context.Context, name string) (*model.TicketType, error) {
	const q = "SELECT " + ticketTypeColumns + " FROM ticket_types WHERE name = ?"
	t, err := scanTicketType(r.db.QueryRowContext(ctx, q, name))
	if err == sql.ErrNoRows {
		return nil, ErrTicketTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActive returns every ticket type currently offered, ordered by id.
// This is the public catalog listing.
func (r *TicketTypeRepo) ListActive(ctx context.Context) ([]model.TicketType, error) {
	const q = "SELECT " + ticketTypeColumns + " FROM ticket_types WHERE is_active = 1 ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TicketType
	for rows.Next() {
		t, err := scanTicketType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a ticket type.  Missing rows map
// to ErrTicketTypeNotFound; renaming onto an existing name maps to
// ErrNameExists.
func (r *TicketTypeRepo) Update(ctx context.Context, t *model.TicketType) error {
	const q = `UPDATE ticket_types
               SET name = ?, price = ?, description = ?, category = ?, is_active = ?, daily_limit = ?
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Price, t.Description, t.Category, t.IsActive, t.DailyLimit, t.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNameExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "row absent" from "update was a no-op".
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a ticket type.  There is no cascade: ledger entries
// referencing the deleted type's name remain and still count toward
// analytics.  Deleting an unknown id is not an error, matching the
// storefront's fire-and-forget removal semantics.
func (r *TicketTypeRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM ticket_types WHERE id = ?", id)
	return err
}

// SeedDefaults inserts the launch catalog when the table is empty.  Called
// once on startup so a fresh deployment has something to sell.
func (r *TicketTypeRepo) SeedDefaults(ctx context.Context) error {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ticket_types").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	defaults := []model.TicketType{
		{Name: "General Entry", Price: 200, Description: "Access to main museum halls", Category: model.CategoryEntry, IsActive: true, DailyLimit: 100},
		{Name: "Egyptian Mystique", Price: 500, Description: "Premium exhibit of the Pharaohs", Category: model.CategoryExhibit, IsActive: true, DailyLimit: 100},
		{Name: "Digital Art Show", Price: 350, Description: "Immersive light and sound show", Category: model.CategoryShow, IsActive: true, DailyLimit: 100},
	}
	for i := range defaults {
		if err := r.Create(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}
