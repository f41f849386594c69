package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxemuseum/booking-api/internal/model"
	"github.com/luxemuseum/booking-api/internal/repository"
)

// stubCatalog serves ticket types from in-memory maps.
type stubCatalog struct {
	byID   map[uint64]model.TicketType
	byName map[string]model.TicketType
	active []model.TicketType
}

func (s *stubCatalog) GetByID(_ context.Context, id uint64) (*model.TicketType, error) {
	if t, ok := s.byID[id]; ok {
		return &t, nil
	}
	return nil, repository.ErrTicketTypeNotFound
}

func (s *stubCatalog) GetByName(_ context.Context, name string) (*model.TicketType, error) {
	if t, ok := s.byName[name]; ok {
		return &t, nil
	}
	return nil, repository.ErrTicketTypeNotFound
}

func (s *stubCatalog) ListActive(_ context.Context) ([]model.TicketType, error) {
	return s.active, nil
}

// stubLedger serves consumption sums from in-memory maps.  perSlot is
// keyed "name|date", byDate and onDate mirror the grouped repository
// scans.
type stubLedger struct {
	perSlot map[string]int64
	onDate  map[string]map[string]int64
	byDate  map[string]map[string]int64
}

func (s *stubLedger) ConsumedQuantity(_ context.Context, typeName, date string) (int64, error) {
	return s.perSlot[typeName+"|"+date], nil
}

func (s *stubLedger) ConsumedOnDate(_ context.Context, date string) (map[string]int64, error) {
	if m, ok := s.onDate[date]; ok {
		return m, nil
	}
	return map[string]int64{}, nil
}

func (s *stubLedger) ConsumedByDate(_ context.Context, typeName string) (map[string]int64, error) {
	if m, ok := s.byDate[typeName]; ok {
		return m, nil
	}
	return map[string]int64{}, nil
}

func testEngine(catalog *stubCatalog, ledger *stubLedger, now time.Time) *Engine {
	e := NewEngine(catalog, ledger)
	e.now = func() time.Time { return now }
	return e
}

func TestAvailableCapacityTracksConsumption(t *testing.T) {
	catalog := &stubCatalog{byName: map[string]model.TicketType{
		"General Entry": {ID: 1, Name: "General Entry", DailyLimit: 100},
	}}
	ledger := &stubLedger{perSlot: map[string]int64{}}
	e := testEngine(catalog, ledger, time.Now())

	avail, err := e.AvailableCapacity(context.Background(), "General Entry", "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, int64(100), avail)

	ledger.perSlot["General Entry|2026-09-01"] = 30
	avail, err = e.AvailableCapacity(context.Background(), "General Entry", "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, int64(70), avail)

	ledger.perSlot["General Entry|2026-09-01"] = 100
	avail, err = e.AvailableCapacity(context.Background(), "General Entry", "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, int64(0), avail)
}

func TestAvailableCapacityNeverNegative(t *testing.T) {
	// The ledger can legitimately hold more paid quantity than the daily
	// limit because writes are not capacity-checked.
	catalog := &stubCatalog{byName: map[string]model.TicketType{
		"Digital Art Show": {ID: 3, Name: "Digital Art Show", DailyLimit: 100},
	}}
	ledger := &stubLedger{perSlot: map[string]int64{"Digital Art Show|2026-09-01": 130}}
	e := testEngine(catalog, ledger, time.Now())

	avail, err := e.AvailableCapacity(context.Background(), "Digital Art Show", "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, int64(0), avail)
}

func TestAvailableCapacityUnknownType(t *testing.T) {
	e := testEngine(&stubCatalog{byName: map[string]model.TicketType{}}, &stubLedger{}, time.Now())

	_, err := e.AvailableCapacity(context.Background(), "Gone", "2026-09-01")
	assert.ErrorIs(t, err, repository.ErrTicketTypeNotFound)
}

func TestAvailableCapacityOpaqueDate(t *testing.T) {
	// An unparseable date is just a key that matches no bookings.
	catalog := &stubCatalog{byName: map[string]model.TicketType{
		"General Entry": {ID: 1, Name: "General Entry", DailyLimit: 100},
	}}
	ledger := &stubLedger{perSlot: map[string]int64{"General Entry|2026-09-01": 40}}
	e := testEngine(catalog, ledger, time.Now())

	avail, err := e.AvailableCapacity(context.Background(), "General Entry", "not-a-date")
	require.NoError(t, err)
	assert.Equal(t, int64(100), avail)
}

func TestProjectSlotsWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	catalog := &stubCatalog{byID: map[uint64]model.TicketType{
		2: {ID: 2, Name: "Egyptian Mystique", DailyLimit: 100},
	}}
	ledger := &stubLedger{byDate: map[string]map[string]int64{
		"Egyptian Mystique": {
			"2026-09-01": 12,
			"2026-09-06": 150, // past the limit; available clamps to zero
		},
	}}
	e := testEngine(catalog, ledger, now)

	tt, slots, err := e.ProjectSlots(context.Background(), 2, 30)
	require.NoError(t, err)
	assert.Equal(t, "Egyptian Mystique", tt.Name)
	require.Len(t, slots, 30)

	// Dates are contiguous starting today.
	for i, s := range slots {
		assert.Equal(t, now.AddDate(0, 0, i).Format("2006-01-02"), s.Date)
		assert.Equal(t, int64(100), s.Total)
	}
	assert.Equal(t, int64(12), slots[0].Booked)
	assert.Equal(t, int64(88), slots[0].Available)
	assert.Equal(t, int64(150), slots[5].Booked)
	assert.Equal(t, int64(0), slots[5].Available)
	assert.Equal(t, int64(0), slots[1].Booked)
	assert.Equal(t, int64(100), slots[1].Available)
}

func TestProjectSlotsDefaultHorizon(t *testing.T) {
	catalog := &stubCatalog{byID: map[uint64]model.TicketType{
		1: {ID: 1, Name: "General Entry", DailyLimit: 100},
	}}
	e := testEngine(catalog, &stubLedger{}, time.Now())

	_, slots, err := e.ProjectSlots(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, slots, DefaultHorizonDays)
}

func TestProjectSlotsUnknownType(t *testing.T) {
	e := testEngine(&stubCatalog{byID: map[uint64]model.TicketType{}}, &stubLedger{}, time.Now())

	_, _, err := e.ProjectSlots(context.Background(), 99, 30)
	assert.ErrorIs(t, err, repository.ErrTicketTypeNotFound)
}

func TestAnnotateAvailability(t *testing.T) {
	catalog := &stubCatalog{active: []model.TicketType{
		{ID: 1, Name: "General Entry", DailyLimit: 100},
		{ID: 2, Name: "Egyptian Mystique", DailyLimit: 50},
	}}
	ledger := &stubLedger{onDate: map[string]map[string]int64{
		"2026-09-01": {"General Entry": 25, "Egyptian Mystique": 50},
	}}
	e := testEngine(catalog, ledger, time.Now())

	out, err := e.AnnotateAvailability(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(75), out[0].Available)
	assert.Equal(t, int64(0), out[1].Available)
}
