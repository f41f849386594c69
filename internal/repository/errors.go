// Package repository defines error values that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrTicketTypeNotFound indicates that a referenced experience
// does not exist (a 404-class condition), while ErrNameExists signals a
// uniqueness conflict when creating a ticket type.
package repository

import "errors"

// ErrTicketTypeNotFound is returned when a ticket type cannot be resolved
// by id or name.  Availability queries for a deleted type surface this
// error rather than reporting zero capacity, so callers can distinguish
// "sold out" from "no such experience".
var ErrTicketTypeNotFound = errors.New("ticket type not found")

// ErrBookingNotFound is returned when a booking id does not match any
// ledger entry.  Handlers translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNameExists is returned when creating a ticket type whose name is
// already taken.  Handlers translate this into an HTTP 409 response.
var ErrNameExists = errors.New("ticket type name already exists")
