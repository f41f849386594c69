// Package payment wraps the Razorpay orders API.  The service only ever
// registers orders; signature verification of the payment callback is
// handled by the client/gateway flow and is out of scope here.
package payment

import (
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// OrderCreator is the capability handlers depend on, so tests can swap in
// a stub gateway.
type OrderCreator interface {
	CreateOrder(amount int64, currency string) (map[string]interface{}, error)
}

// Client talks to Razorpay.  Amounts are accepted in major currency units
// and scaled to the gateway's minor units on the wire.
type Client struct {
	rz       *razorpay.Client
	currency string
	now      func() time.Time
}

// New returns a Client authenticated with the given key pair.
// defaultCurrency is used when an order request omits one.
func New(keyID, keySecret, defaultCurrency string) *Client {
	return &Client{
		rz:       razorpay.NewClient(keyID, keySecret),
		currency: defaultCurrency,
		now:      time.Now,
	}
}

// CreateOrder registers a payment order with the gateway and returns the
// raw order payload for the client to complete checkout against.  The
// receipt id is time-derived so retries produce distinct receipts.
func (c *Client) CreateOrder(amount int64, currency string) (map[string]interface{}, error) {
	if currency == "" {
		currency = c.currency
	}
	data := map[string]interface{}{
		"amount":   amount * 100, // gateway expects minor units
		"currency": currency,
		"receipt":  fmt.Sprintf("rcpt_%d", c.now().UnixMilli()),
	}
	order, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return order, nil
}
