package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luxemuseum/booking-api/internal/payment"
)

// PaymentHandler exposes payment-order creation.  The handler only
// forwards the amount to the gateway; payment completion and signature
// verification happen in the client/gateway callback flow.
type PaymentHandler struct {
	Orders payment.OrderCreator
}

// NewPaymentHandler constructs a PaymentHandler over the given gateway.
func NewPaymentHandler(orders payment.OrderCreator) *PaymentHandler {
	return &PaymentHandler{Orders: orders}
}

type orderReq struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder registers a payment order with the gateway for the given
// amount (major currency units).  Gateway failures surface as the uniform
// failure payload; there is no retry.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "amount must be positive"})
	}

	order, err := h.Orders.CreateOrder(req.Amount, req.Currency)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "payment gateway error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": order})
}
