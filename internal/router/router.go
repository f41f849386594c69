// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/luxemuseum/booking-api/internal/handler"
	"github.com/luxemuseum/booking-api/internal/middleware"
)

// Handlers collects every handler the router wires up.  Keeping them in
// one struct keeps the registration signatures short as the surface
// grows.
type Handlers struct {
	Auth        *handler.AuthHandler
	Bookings    *handler.BookingHandler
	TicketTypes *handler.TicketTypeHandler
	Payments    *handler.PaymentHandler
	Analytics   *handler.AnalyticsHandler
}

// RegisterRoutes registers routes that carry no middleware at all.
// Currently it exposes only a health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the storefront endpoints under /v1.  These
// routes require no authentication; the write-ish ones (payment order,
// admin login, booking finalization) take the Redis token-bucket limiter
// when one is available, and the plain catalog listing takes the Redis
// response cache.  Either middleware may be nil when Redis is down, in
// which case the route runs unwrapped.
func RegisterPublic(e *echo.Echo, h Handlers, limiter, cache echo.MiddlewareFunc) {
	limited := func() []echo.MiddlewareFunc {
		if limiter == nil {
			return nil
		}
		return []echo.MiddlewareFunc{limiter}
	}

	g := e.Group("/v1")

	// Identity sync from the external provider.  Called on every app
	// launch, so it stays outside the rate limiter.
	g.POST("/auth/sync", h.Auth.Sync)
	g.POST("/auth/admin-login", h.Auth.AdminLogin, limited()...)

	// Payment order registration with the gateway.
	g.POST("/payments/order", h.Payments.CreateOrder, limited()...)

	// Booking ledger: finalize a paid booking, list a visitor's history.
	g.POST("/bookings", h.Bookings.Create, limited()...)
	g.GET("/bookings/:uid", h.Bookings.ListByVisitor)

	// Experience catalog.  Only the date-less listing is cacheable; the
	// cache middleware is built with a skip predicate for ?date requests
	// so availability is always derived from the live ledger.
	if cache != nil {
		g.GET("/ticket-types", h.TicketTypes.List, cache)
	} else {
		g.GET("/ticket-types", h.TicketTypes.List)
	}
}

// RegisterAdmin registers the admin-gated endpoints under /v1.  Every
// route in the group requires a bearer token carrying the admin role,
// verified against the shared signing secret.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
	admin := e.Group("/v1")
	admin.Use(middleware.AdminAuth(jwtSecret))

	// Catalog mutations and capacity planning.
	admin.POST("/ticket-types", h.TicketTypes.Create)
	admin.PUT("/ticket-types/:id", h.TicketTypes.Update)
	admin.DELETE("/ticket-types/:id", h.TicketTypes.Delete)
	admin.GET("/ticket-types/:id/slots", h.TicketTypes.Slots)

	// Dashboard and entrance verification.
	admin.GET("/analytics", h.Analytics.Get)
	admin.GET("/verify-ticket/:bookingId", h.Bookings.VerifyTicket)
}
