// Package analytics derives the admin sales/visitor dashboard from the
// booking ledger and the synced visitor identities.  Every figure is
// recomputed from live store state on each call; the sub-aggregations are
// independent scans, so under concurrent writes they may reflect slightly
// different ledger snapshots.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/luxemuseum/booking-api/internal/model"
)

// activeWindow is the trailing liveness window used for the active
// visitor count.
const activeWindow = 30 * time.Minute

// recentLimit caps the recent-bookings list on the dashboard.
const recentLimit = 10

// LedgerStats is the slice of the booking repository the aggregator
// needs.
type LedgerStats interface {
	TotalSales(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	DistinctVisitorCount(ctx context.Context) (int64, error)
	GuestGenderCounts(ctx context.Context) (map[string]int64, error)
	TotalGuests(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Booking, error)
}

// VisitorStats is the slice of the visitor repository the aggregator
// needs.
type VisitorStats interface {
	CountByRole(ctx context.Context, role string) (int64, error)
	CountActiveSince(ctx context.Context, role string, cutoff time.Time) (int64, error)
}

// GenderStats buckets flattened guest demographics.  TotalGuests is the
// sum of booking quantities, computed independently of the classified
// guest records; the two intentionally diverge when gender strings are
// missing or unrecognized.
type GenderStats struct {
	Male        int64 `json:"male"`
	Female      int64 `json:"female"`
	TotalGuests int64 `json:"totalGuests"`
}

// Stats is the aggregate block of the dashboard response.
type Stats struct {
	TotalSales     int64       `json:"totalSales"`
	TotalBookings  int64       `json:"totalBookings"`
	ActiveVisitors int64       `json:"activeVisitors"`
	ConversionRate string      `json:"conversionRate"`
	GenderStats    GenderStats `json:"genderStats"`
}

// Report bundles the stats block with the recent-bookings list.
type Report struct {
	Stats          Stats
	RecentBookings []model.Booking
}

// Aggregator recomputes dashboard figures on demand.
type Aggregator struct {
	ledger   LedgerStats
	visitors VisitorStats
	now      func() time.Time
}

// NewAggregator returns an Aggregator over the given stores.
func NewAggregator(ledger LedgerStats, visitors VisitorStats) *Aggregator {
	return &Aggregator{ledger: ledger, visitors: visitors, now: time.Now}
}

// ComputeStats scans the ledger and visitor store and assembles the
// dashboard report.  An empty store yields all-zero figures and a "0%"
// conversion rate rather than an error.
func (a *Aggregator) ComputeStats(ctx context.Context) (*Report, error) {
	totalSales, err := a.ledger.TotalSales(ctx)
	if err != nil {
		return nil, err
	}
	totalBookings, err := a.ledger.Count(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := a.now().UTC().Add(-activeWindow)
	activeVisitors, err := a.visitors.CountActiveSince(ctx, model.RoleVisitor, cutoff)
	if err != nil {
		return nil, err
	}

	totalVisitors, err := a.visitors.CountByRole(ctx, model.RoleVisitor)
	if err != nil {
		return nil, err
	}
	bookedVisitors, err := a.ledger.DistinctVisitorCount(ctx)
	if err != nil {
		return nil, err
	}
	// One decimal, "0%" for an empty visitor population (never a
	// divide-by-zero).
	conversion := "0%"
	if totalVisitors > 0 {
		conversion = fmt.Sprintf("%.1f%%", float64(bookedVisitors)/float64(totalVisitors)*100)
	}

	genderCounts, err := a.ledger.GuestGenderCounts(ctx)
	if err != nil {
		return nil, err
	}
	var male, female int64
	for raw, n := range genderCounts {
		bucket, ok := classifyGender(raw)
		if !ok {
			continue // excluded from both buckets
		}
		switch bucket {
		case BucketMale:
			male += n
		case BucketFemale:
			female += n
		}
	}
	totalGuests, err := a.ledger.TotalGuests(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := a.ledger.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	return &Report{
		Stats: Stats{
			TotalSales:     totalSales,
			TotalBookings:  totalBookings,
			ActiveVisitors: activeVisitors,
			ConversionRate: conversion,
			GenderStats: GenderStats{
				Male:        male,
				Female:      female,
				TotalGuests: totalGuests,
			},
		},
		RecentBookings: recent,
	}, nil
}
