// Package checkout drives a cart through payment into a persisted order.
// Each session owns at most one Flow; the flow is a small state machine
// with three states and no retries.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/canteen-hub/api/internal/cart"
	"github.com/canteen-hub/api/internal/database"
	"github.com/canteen-hub/api/internal/enum"
	"github.com/canteen-hub/api/internal/gateway"
	"github.com/canteen-hub/api/internal/service"
)

type State string

const (
	// StateFilling accepts cart edits and a Submit.
	StateFilling State = "filling"
	// StateSubmitting means payment is in flight; for the gateway method
	// the flow waits here for ConfirmPayment or Cancel.
	StateSubmitting State = "submitting"
	// StateCompleted means the order is persisted and the cart cleared.
	StateCompleted State = "completed"
)

var (
	ErrInvalidState       = errors.New("operation not allowed in current checkout state")
	ErrMissingStudentName = errors.New("student name is required")
	ErrMissingRollNumber  = errors.New("roll number is required")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrPaymentCancelled   = errors.New("payment was cancelled")
	ErrPaymentFailed      = errors.New("payment failed, please try again")
)

// IsValidationError reports whether err is a checkout input problem rather
// than a payment or storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingStudentName) ||
		errors.Is(err, ErrMissingRollNumber) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidMethod)
}

// OrderCreator persists a finished order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (database.Order, error)
}

// Gateway is the slice of the payment gateway the flow needs.
type Gateway interface {
	CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (gateway.Order, error)
	FetchPayment(ctx context.Context, paymentID string) (gateway.Payment, error)
}

// Flow is one checkout attempt for one cart session. Safe for concurrent
// use; the internal payment delay is served under the lock so a session
// cannot submit twice.
type Flow struct {
	mu      sync.Mutex
	state   State
	session *cart.Session
	orders  OrderCreator
	gateway Gateway
	delay   time.Duration

	studentName  string
	rollNumber   string
	method       string
	gatewayOrder gateway.Order
	order        database.Order

	now      func() time.Time
	newToken func() string
}

func NewFlow(session *cart.Session, orders OrderCreator, gw Gateway, delay time.Duration) *Flow {
	f := &Flow{
		state:   StateFilling,
		session: session,
		orders:  orders,
		gateway: gw,
		delay:   delay,
		now:     time.Now,
	}
	f.newToken = func() string {
		return strconv.FormatInt(f.now().UnixMilli(), 10)
	}
	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Order returns the persisted order after the flow completed.
func (f *Flow) Order() (database.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order, f.state == StateCompleted
}

// GatewayOrder returns the gateway-side order a razorpay Submit created,
// for the client to hand to the payment widget.
func (f *Flow) GatewayOrder() (gateway.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gatewayOrder, f.state == StateSubmitting && f.method == enum.PaymentMethodRazorpay
}

// Submit starts payment for the cart. For pay_now and add_to_account it
// runs to completion; the simulated processing delay cannot be cancelled.
// For razorpay it creates the gateway order and leaves the flow in
// StateSubmitting until ConfirmPayment or Cancel resolves it.
func (f *Flow) Submit(ctx context.Context, studentName, rollNumber, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateFilling {
		return ErrInvalidState
	}

	studentName = strings.TrimSpace(studentName)
	rollNumber = strings.TrimSpace(rollNumber)
	switch {
	case studentName == "":
		return ErrMissingStudentName
	case rollNumber == "":
		return ErrMissingRollNumber
	case !enum.ValidPaymentMethod(method):
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	case f.session.Len() == 0:
		return ErrEmptyCart
	}

	f.studentName = studentName
	f.rollNumber = rollNumber
	f.method = method
	f.state = StateSubmitting

	if method == enum.PaymentMethodRazorpay {
		order, err := f.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
			Amount:   f.session.Total(),
			Currency: "INR",
			Receipt:  f.newToken(),
			Notes: map[string]string{
				"description": itemSummary(f.session.Items()) + " - Order by " + studentName,
				"roll_number": rollNumber,
			},
		})
		if err != nil {
			f.state = StateFilling
			return fmt.Errorf("create gateway order: %w", err)
		}
		f.gatewayOrder = order
		return nil
	}

	time.Sleep(f.delay)

	status := enum.PaymentStatusPending
	if method == enum.PaymentMethodPayNow {
		status = enum.PaymentStatusPaid
	}
	return f.complete(ctx, f.newToken(), status)
}

// ConfirmPayment resolves a razorpay submission with the payment id the
// widget reported. An unsettled payment fails the flow back to filling
// with the cart untouched.
func (f *Flow) ConfirmPayment(ctx context.Context, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSubmitting || f.method != enum.PaymentMethodRazorpay {
		return ErrInvalidState
	}

	payment, err := f.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		f.state = StateFilling
		return fmt.Errorf("verify payment: %w", err)
	}
	if !payment.Settled() {
		f.state = StateFilling
		return ErrPaymentFailed
	}
	return f.complete(ctx, payment.ID, enum.PaymentStatusPaid)
}

// Cancel abandons a razorpay submission. reason is "failed" when the
// widget reported a payment failure, anything else counts as the student
// closing it. The cart is kept so the student can try again.
func (f *Flow) Cancel(reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSubmitting {
		return ErrInvalidState
	}
	f.state = StateFilling
	if reason == "failed" {
		return ErrPaymentFailed
	}
	return ErrPaymentCancelled
}

// complete persists the order and clears the cart. Called with f.mu held.
func (f *Flow) complete(ctx context.Context, orderID, status string) error {
	items := f.session.Items()
	inputs := make([]service.OrderItemInput, 0, len(items))
	var total int64
	for _, it := range items {
		inputs = append(inputs, service.OrderItemInput{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Category: it.Category,
			Quantity: it.Quantity,
		})
		total += it.Price * int64(it.Quantity)
	}

	order, err := f.orders.CreateOrder(ctx, service.CreateOrderRequest{
		ID:            orderID,
		StudentName:   f.studentName,
		RollNumber:    f.rollNumber,
		Items:         inputs,
		Total:         total,
		PaymentMethod: f.method,
		PaymentStatus: status,
	})
	if err != nil {
		f.state = StateFilling
		return fmt.Errorf("persist order: %w", err)
	}
	if err := f.session.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	f.order = order
	f.state = StateCompleted
	return nil
}

// itemSummary renders "Veg Meal x1, Regular Chai x2" for gateway
// descriptions.
func itemSummary(items []cart.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}
