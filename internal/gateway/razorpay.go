// Package gateway wraps the Razorpay REST API. The checkout widget itself
// runs in the browser; this client creates the gateway-side order the widget
// is opened with and verifies payments the widget reports back.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ErrPaymentNotFound is returned when the gateway does not know the payment
// id a confirmation carried.
var ErrPaymentNotFound = errors.New("payment not found at gateway")

// CreateOrderRequest creates a gateway order. Amount is in paise.
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is a gateway-side order awaiting payment.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment is a gateway payment record.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Captured bool   `json:"captured"`
}

// Settled reports whether the payment actually went through.
func (p Payment) Settled() bool {
	return p.Captured || p.Status == "captured" || p.Status == "authorized"
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client talks to the Razorpay v1 API with key-id/key-secret basic auth.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// CreateOrder registers an order with the gateway and returns its id for the
// checkout widget.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var (
		order  Order
		apiErr apiError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		return Order{}, fmt.Errorf("create gateway order: %w", err)
	}
	if resp.IsError() {
		return Order{}, fmt.Errorf("create gateway order: %s (%s)",
			apiErr.Error.Description, apiErr.Error.Code)
	}
	return order, nil
}

// FetchPayment looks up a payment by the id the widget reported.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (Payment, error) {
	var (
		payment Payment
		apiErr  apiError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payment).
		SetError(&apiErr).
		Get("/v1/payments/" + paymentID)
	if err != nil {
		return Payment{}, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}
	if resp.StatusCode() == 404 {
		return Payment{}, fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
	}
	if resp.IsError() {
		return Payment{}, fmt.Errorf("fetch payment %s: %s (%s)",
			paymentID, apiErr.Error.Description, apiErr.Error.Code)
	}
	return payment, nil
}
