package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canteen-hub/api/internal/cart"
	"github.com/canteen-hub/api/internal/checkout"
)

// CheckoutHandler turns a session cart into a persisted order. Flows that
// wait on a gateway outcome are parked in a registry keyed by session id
// until the confirm or cancel callback arrives.
type CheckoutHandler struct {
	carts   cart.Store
	orders  checkout.OrderCreator
	gateway checkout.Gateway
	delay   time.Duration

	mu    sync.Mutex
	flows map[string]*checkout.Flow
}

func NewCheckoutHandler(carts cart.Store, orders checkout.OrderCreator, gw checkout.Gateway, delay time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:   carts,
		orders:  orders,
		gateway: gw,
		delay:   delay,
		flows:   make(map[string]*checkout.Flow),
	}
}

func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", h.Begin)
	r.Post("/checkout/confirm", h.Confirm)
	r.Post("/checkout/cancel", h.Cancel)
}

type beginCheckoutRequest struct {
	StudentName   string `json:"studentName"`
	RollNumber    string `json:"rollNumber"`
	PaymentMethod string `json:"paymentMethod"`
}

type confirmCheckoutRequest struct {
	PaymentID string `json:"paymentId"`
}

type cancelCheckoutRequest struct {
	Reason string `json:"reason"`
}

type gatewayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (h *CheckoutHandler) sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	return c.Value
}

func (h *CheckoutHandler) takeFlow(sessionID string) (*checkout.Flow, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.flows[sessionID]
	if ok {
		delete(h.flows, sessionID)
	}
	return f, ok
}

// Begin handles POST /api/checkout. pay_now and add_to_account complete in
// this request; razorpay answers with the gateway order and waits for the
// confirm or cancel callback.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	var req beginCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	if _, busy := h.flows[sessionID]; busy {
		h.mu.Unlock()
		writeError(w, http.StatusConflict, "Checkout already in progress")
		return
	}
	h.mu.Unlock()

	session, err := cart.OpenSession(r.Context(), sessionID, h.carts)
	if err != nil {
		log.Printf("ERROR: load cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	flow := checkout.NewFlow(session, h.orders, h.gateway, h.delay)
	if err := flow.Submit(r.Context(), req.StudentName, req.RollNumber, req.PaymentMethod); err != nil {
		if checkout.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: checkout submit: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	if gwOrder, waiting := flow.GatewayOrder(); waiting {
		h.mu.Lock()
		h.flows[sessionID] = flow
		h.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"state":   checkout.StateSubmitting,
			"gatewayOrder": gatewayOrderResponse{
				ID:       gwOrder.ID,
				Amount:   gwOrder.Amount,
				Currency: gwOrder.Currency,
			},
		})
		return
	}

	order, _ := flow.Order()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"state":   checkout.StateCompleted,
		"message": "Order placed successfully",
		"order":   toOrderResponse(order),
	})
}

// Confirm handles POST /api/checkout/confirm with the payment id the
// gateway widget reported.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "Payment ID is required")
		return
	}

	flow, ok := h.takeFlow(h.sessionID(r))
	if !ok {
		writeError(w, http.StatusConflict, "No checkout in progress")
		return
	}

	if err := flow.ConfirmPayment(r.Context(), req.PaymentID); err != nil {
		if errors.Is(err, checkout.ErrPaymentFailed) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: confirm payment: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to verify payment")
		return
	}

	order, _ := flow.Order()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"state":   checkout.StateCompleted,
		"message": "Order placed successfully",
		"order":   toOrderResponse(order),
	})
}

// Cancel handles POST /api/checkout/cancel. The cart is kept; the message
// tells the student whether they closed the widget or the payment failed.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, ok := h.takeFlow(h.sessionID(r))
	if !ok {
		writeError(w, http.StatusConflict, "No checkout in progress")
		return
	}

	err := flow.Cancel(req.Reason)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": false,
		"state":   checkout.StateFilling,
		"error":   err.Error(),
	})
}
