package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/canteen-hub/api/internal/analytics"
	"github.com/canteen-hub/api/internal/database"
	"github.com/canteen-hub/api/internal/enum"
	"github.com/canteen-hub/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (database.Order, error)
}

// OrderStore defines the database methods needed by order read/update
// handlers. Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id string) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	UpdatePaymentStatus(ctx context.Context, arg database.UpdatePaymentStatusParams) (database.Order, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	loc   *time.Location
}

// NewOrderHandler creates a new OrderHandler. loc is the canteen's timezone,
// used to resolve date query params to calendar days.
func NewOrderHandler(svc OrderServicer, store OrderStore, loc *time.Location) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, loc: loc}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
	r.Put("/orders/{orderId}/payment", h.UpdatePayment)
}

// --- Request / Response types ---

type orderItemRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Quantity int32  `json:"quantity"`
}

type createOrderRequest struct {
	ID            string             `json:"id"`
	StudentName   string             `json:"studentName"`
	RollNumber    string             `json:"rollNumber"`
	Items         []orderItemRequest `json:"items"`
	Total         int64              `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentStatus string             `json:"paymentStatus"`
}

type orderResponse struct {
	ID            string          `json:"id"`
	StudentName   string          `json:"studentName"`
	RollNumber    string          `json:"rollNumber"`
	Items         json.RawMessage `json:"items"`
	Total         int64           `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	Timestamp     time.Time       `json:"timestamp"`
}

type updatePaymentRequest struct {
	Status string `json:"status"`
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		StudentName:   o.StudentName,
		RollNumber:    o.RollNumber,
		Items:         o.Items,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Timestamp:     o.CreatedAt,
	}
}

// --- Handlers ---

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.OrderItemInput{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Category: it.Category,
			Quantity: it.Quantity,
		}
	}

	_, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		ID:            req.ID,
		StudentName:   req.StudentName,
		RollNumber:    req.RollNumber,
		Items:         items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		if service.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order created successfully",
	})
}

// List handles GET /api/orders. An optional date param narrows the result
// to one calendar day in the canteen timezone.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var date pgtype.Date
	if s := r.URL.Query().Get("date"); s != "" {
		day, err := analytics.ParseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = pgtype.Date{Time: day.Time(time.UTC), Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		Date:     date,
		Timezone: h.loc.String(),
	})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  resp,
	})
}

// UpdatePayment handles PUT /api/orders/{orderId}/payment. A paid order
// never moves back to pending; such a request answers 409.
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Order ID and status are required")
		return
	}
	if !enum.ValidPaymentStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Status must be 'paid' or 'pending'")
		return
	}

	_, err := h.store.UpdatePaymentStatus(r.Context(), database.UpdatePaymentStatusParams{
		ID:     orderID,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The update matches nothing either because the order does not
			// exist or because it is paid and the request asked for pending.
			if _, getErr := h.store.GetOrder(r.Context(), orderID); getErr == nil {
				writeError(w, http.StatusConflict, "Order is already paid")
				return
			}
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Printf("ERROR: update payment status: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update payment status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment status updated successfully",
	})
}
