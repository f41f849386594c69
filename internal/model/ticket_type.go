package model

import "time"

// Category values for a TicketType.  A category groups experiences on the
// storefront: general admission, themed exhibits and timed shows.
const (
	CategoryEntry   = "Entry"
	CategoryExhibit = "Exhibit"
	CategoryShow    = "Show"
)

// TicketType describes a bookable museum experience.  Each type carries a
// price in minor currency units and a per-day capacity (DailyLimit) that
// bookings consume.  Bookings reference a type by name rather than by id,
// so deleting a type leaves historical ledger entries intact.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name, unique among ticket types.
//  Price       – price per unit in minor currency units.
//  Description – storefront description text.
//  Category    – one of Entry, Exhibit, Show.
//  IsActive    – whether the type is currently offered.
//  DailyLimit  – capacity per calendar day consumed by bookings.
//  CreatedAt   – timestamp when the record was created.
type TicketType struct {
	ID          uint64    // ticket_types.id
	Name        string    // ticket_types.name
	Price       int64     // ticket_types.price
	Description string    // ticket_types.description
	Category    string    // ticket_types.category
	IsActive    bool      // ticket_types.is_active
	DailyLimit  int64     // ticket_types.daily_limit
	CreatedAt   time.Time // ticket_types.created_at
}
