// Package inventory computes slot availability for museum experiences.
// Capacity is never cached: every query subtracts live ledger consumption
// from the catalog's daily limit, so results are always consistent with
// the bookings written so far at the cost of an aggregation scan per call.
package inventory

import (
	"context"
	"time"

	"github.com/luxemuseum/booking-api/internal/model"
)

// DefaultHorizonDays is the length of the slot projection window used by
// the admin capacity-planning view.
const DefaultHorizonDays = 30

// CatalogStore is the slice of the ticket type repository the engine
// needs: capacity and active-flag lookups.
type CatalogStore interface {
	GetByID(ctx context.Context, id uint64) (*model.TicketType, error)
	GetByName(ctx context.Context, name string) (*model.TicketType, error)
	ListActive(ctx context.Context) ([]model.TicketType, error)
}

// LedgerStore is the slice of the booking repository the engine needs:
// consumption sums keyed by slot.
type LedgerStore interface {
	ConsumedQuantity(ctx context.Context, typeName, date string) (int64, error)
	ConsumedOnDate(ctx context.Context, date string) (map[string]int64, error)
	ConsumedByDate(ctx context.Context, typeName string) (map[string]int64, error)
}

// Slot is one day of the capacity-planning projection.
type Slot struct {
	Date      string `json:"date"`
	Total     int64  `json:"total"`
	Booked    int64  `json:"booked"`
	Available int64  `json:"available"`
}

// TypeAvailability is a catalog row annotated with the remaining capacity
// for a requested date.
type TypeAvailability struct {
	model.TicketType
	Available int64
}

// Engine derives availability figures on demand from the catalog and the
// booking ledger.
type Engine struct {
	catalog CatalogStore
	ledger  LedgerStore
	now     func() time.Time
}

// NewEngine returns an Engine over the given stores.
func NewEngine(catalog CatalogStore, ledger LedgerStore) *Engine {
	return &Engine{catalog: catalog, ledger: ledger, now: time.Now}
}

// AvailableCapacity reports how many slots remain for the named experience
// on the given date: max(0, dailyLimit - consumed).  The result is never
// negative even when the ledger has been allowed past the limit.  The date
// is an opaque key; an unparseable value matches no bookings and simply
// reports full capacity.  An unknown type surfaces
// repository.ErrTicketTypeNotFound from the catalog store.
func (e *Engine) AvailableCapacity(ctx context.Context, typeName, date string) (int64, error) {
	t, err := e.catalog.GetByName(ctx, typeName)
	if err != nil {
		return 0, err
	}
	consumed, err := e.ledger.ConsumedQuantity(ctx, typeName, date)
	if err != nil {
		return 0, err
	}
	return clampAvailable(t.DailyLimit, consumed), nil
}

// ProjectSlots returns the capacity-planning view for one experience:
// horizonDays consecutive entries starting at the current UTC day, each
// with the daily limit, the quantity already booked and the remainder.
// Days with no bookings report booked = 0.  A non-positive horizon falls
// back to DefaultHorizonDays.
func (e *Engine) ProjectSlots(ctx context.Context, typeID uint64, horizonDays int) (*model.TicketType, []Slot, error) {
	t, err := e.catalog.GetByID(ctx, typeID)
	if err != nil {
		return nil, nil, err
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	booked, err := e.ledger.ConsumedByDate(ctx, t.Name)
	if err != nil {
		return nil, nil, err
	}

	today := e.now().UTC()
	slots := make([]Slot, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		date := today.AddDate(0, 0, i).Format("2006-01-02")
		n := booked[date]
		slots = append(slots, Slot{
			Date:      date,
			Total:     t.DailyLimit,
			Booked:    n,
			Available: clampAvailable(t.DailyLimit, n),
		})
	}
	return t, slots, nil
}

// AnnotateAvailability returns every active ticket type with its remaining
// capacity for the given date.  A single grouped ledger scan serves the
// whole catalog.
func (e *Engine) AnnotateAvailability(ctx context.Context, date string) ([]TypeAvailability, error) {
	types, err := e.catalog.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	consumed, err := e.ledger.ConsumedOnDate(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]TypeAvailability, 0, len(types))
	for _, t := range types {
		out = append(out, TypeAvailability{
			TicketType: t,
			Available:  clampAvailable(t.DailyLimit, consumed[t.Name]),
		})
	}
	return out, nil
}

func clampAvailable(limit, consumed int64) int64 {
	if consumed >= limit {
		return 0
	}
	return limit - consumed
}
