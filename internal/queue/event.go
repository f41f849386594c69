// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published after a paid booking is written to the
// ledger.  It carries enough information for downstream consumers to log,
// notify, or feed external analytics without querying the primary
// database.
type BookingCreatedEvent struct {
	BookingID   string `json:"booking_id"`
	VisitorUID  string `json:"visitor_uid"`
	VisitorName string `json:"visitor_name"`
	TicketType  string `json:"ticket_type"`
	Date        string `json:"date"`
	Quantity    int64  `json:"quantity"`
	TotalAmount int64  `json:"total_amount"`
	CreatedAt   string `json:"created_at"`
}
