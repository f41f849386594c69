package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload" // load .env before config reads the environment
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/luxemuseum/booking-api/internal/analytics"
	"github.com/luxemuseum/booking-api/internal/config"
	"github.com/luxemuseum/booking-api/internal/database"
	"github.com/luxemuseum/booking-api/internal/handler"
	"github.com/luxemuseum/booking-api/internal/inventory"
	"github.com/luxemuseum/booking-api/internal/middleware"
	"github.com/luxemuseum/booking-api/internal/payment"
	"github.com/luxemuseum/booking-api/internal/queue"
	"github.com/luxemuseum/booking-api/internal/repository"
	"github.com/luxemuseum/booking-api/internal/router"
	queuepublisher "github.com/luxemuseum/booking-api/internal/service"
)

func main() {
	cfg := config.Load()

	// Database is mandatory; without it there is no catalog and no ledger.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}

	// Repositories over the shared pool.
	ticketTypes := repository.NewTicketTypeRepo(db)
	bookings := repository.NewBookingRepo(db)
	visitors := repository.NewVisitorRepo(db)

	// Seed the catalog on first boot so a fresh deployment has something
	// to sell.
	if err := ticketTypes.SeedDefaults(ctx); err != nil {
		log.Printf("seed catalog: %v", err)
	}
	cancel()

	// Redis is optional: when unavailable, rate limiting and the catalog
	// response cache are disabled and every request hits the database.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	engine := inventory.NewEngine(ticketTypes, bookings)
	aggregator := analytics.NewAggregator(bookings, visitors)
	gateway := payment.New(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.Currency)

	bookingHandler := handler.NewBookingHandler(bookings, ticketTypes)
	bookingHandler.PublishEvent = queuepublisher.PublishBookingCreated

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, visitors),
		Bookings:    bookingHandler,
		TicketTypes: handler.NewTicketTypeHandler(ticketTypes, engine),
		Payments:    handler.NewPaymentHandler(gateway),
		Analytics:   handler.NewAnalyticsHandler(aggregator),
	}

	// Background consumer mirrors booking.created events into the audit
	// log.  It manages its own reconnect loop and never returns under
	// normal operation.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	// Cache only the plain catalog listing; a date parameter means the
	// response carries availability derived from the live ledger.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, func(c echo.Context) bool {
		return c.QueryParam("date") != ""
	})

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handlers, limiter, cache)
	router.RegisterAdmin(e, handlers, cfg.JWTSecret)

	// Run the server until an interrupt, then drain in-flight requests.
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-runCtx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
