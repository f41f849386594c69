package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luxemuseum/booking-api/internal/analytics"
)

// AnalyticsHandler exposes the admin dashboard.  All figures are derived
// from live store state on every request.
type AnalyticsHandler struct {
	Agg *analytics.Aggregator
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(agg *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{Agg: agg}
}

// Get computes and returns the sales/visitor dashboard: totals,
// conversion rate, demographic buckets and the ten most recent bookings.
func (h *AnalyticsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	report, err := h.Agg.ComputeStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "analytics failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"stats":          report.Stats,
		"recentBookings": toBookingJSONList(report.RecentBookings),
	})
}
