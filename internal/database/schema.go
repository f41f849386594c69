package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for every table the service owns.  Statements use
// IF NOT EXISTS so EnsureSchema is safe to run on every startup.  Tables
// are utf8mb4 because guest names and gender values arrive in several
// scripts (Devanagari, Japanese).
//
// bookings.visit_date is VARCHAR on purpose: the calendar day is an
// opaque accounting key, never parsed, and an unparseable value must
// still be storable.  bookings.created_at uses microsecond precision so
// recent-booking ordering is strict.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ticket_types (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		price BIGINT NOT NULL DEFAULT 0,
		description TEXT,
		category VARCHAR(32) NOT NULL DEFAULT 'Show',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		daily_limit BIGINT NOT NULL DEFAULT 100,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_ticket_types_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		booking_id VARCHAR(64) NOT NULL,
		visitor_uid VARCHAR(128) NOT NULL,
		visitor_name VARCHAR(191) NOT NULL DEFAULT '',
		ticket_type VARCHAR(191) NOT NULL,
		visit_date VARCHAR(64) NOT NULL,
		quantity BIGINT NOT NULL,
		total_amount BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'Paid',
		language VARCHAR(16) NOT NULL DEFAULT '',
		razorpay_order_id VARCHAR(64) NOT NULL DEFAULT '',
		payment_id VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		UNIQUE KEY uq_bookings_booking_id (booking_id),
		KEY idx_bookings_slot (ticket_type, visit_date),
		KEY idx_bookings_visitor (visitor_uid)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS booking_guests (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(191) NOT NULL DEFAULT '',
		gender VARCHAR(64) NOT NULL DEFAULT '',
		age VARCHAR(16) NOT NULL DEFAULT '',
		KEY idx_booking_guests_booking (booking_id),
		CONSTRAINT fk_booking_guests_booking FOREIGN KEY (booking_id)
			REFERENCES bookings (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS visitors (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		uid VARCHAR(128) NOT NULL,
		email VARCHAR(191) NOT NULL DEFAULT '',
		name VARCHAR(191) NOT NULL DEFAULT '',
		picture TEXT,
		role VARCHAR(32) NOT NULL DEFAULT 'visitor',
		last_active DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_visitors_uid (uid)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  It is called once from the
// process entry point before repositories are constructed.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
