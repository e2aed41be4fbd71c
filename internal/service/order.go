package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/canteen-hub/api/internal/database"
	"github.com/canteen-hub/api/internal/enum"
)

// Validation errors returned by the order service. All of them abort the
// operation before anything is written.
var (
	ErrMissingOrderID       = errors.New("order id is required")
	ErrMissingStudentName   = errors.New("student name is required")
	ErrMissingRollNumber    = errors.New("roll number is required")
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidPrice         = errors.New("price must be >= 0")
	ErrMissingItemFields    = errors.New("item id and name are required")
	ErrInvalidCategory      = errors.New("invalid item category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrTotalMismatch        = errors.New("total does not match sum of items")
)

// IsValidationError reports whether err is one of the service's validation
// errors, which map to 400 at the API boundary.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingOrderID) ||
		errors.Is(err, ErrMissingStudentName) ||
		errors.Is(err, ErrMissingRollNumber) ||
		errors.Is(err, ErrEmptyItems) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrMissingItemFields) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidPaymentStatus) ||
		errors.Is(err, ErrTotalMismatch)
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries bound to a pool or a transaction.
type OrderStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), so the
// service can run its writes inside a transaction it owns.
type NewOrderStore func(db database.DBTX) OrderStore

// OrderItemInput is one line of an order to create.
type OrderItemInput struct {
	ID       string
	Name     string
	Price    int64
	Category string
	Quantity int32
}

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	ID            string
	StudentName   string
	RollNumber    string
	Items         []OrderItemInput
	Total         int64
	PaymentMethod string
	PaymentStatus string
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates the request and persists the order header and its
// denormalized line items in a single transaction, so a failed item write
// cannot leave an order without lines.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (database.Order, error) {
	if err := validate(req); err != nil {
		return database.Order{}, err
	}

	itemsJSON, err := json.Marshal(toSnapshot(req.Items))
	if err != nil {
		return database.Order{}, fmt.Errorf("encode items: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		ID:            req.ID,
		StudentName:   strings.TrimSpace(req.StudentName),
		RollNumber:    strings.TrimSpace(req.RollNumber),
		Items:         itemsJSON,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}

	for i, item := range req.Items {
		if _, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:      order.ID,
			ItemID:       item.ID,
			ItemName:     item.Name,
			ItemPrice:    item.Price,
			ItemCategory: item.Category,
			Quantity:     item.Quantity,
		}); err != nil {
			return database.Order{}, fmt.Errorf("create order item[%d]: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

func validate(req CreateOrderRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return ErrMissingOrderID
	}
	if strings.TrimSpace(req.StudentName) == "" {
		return ErrMissingStudentName
	}
	if strings.TrimSpace(req.RollNumber) == "" {
		return ErrMissingRollNumber
	}
	if len(req.Items) == 0 {
		return ErrEmptyItems
	}
	if !enum.ValidPaymentMethod(req.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	if !enum.ValidPaymentStatus(req.PaymentStatus) {
		return ErrInvalidPaymentStatus
	}

	var sum int64
	for i, item := range req.Items {
		if item.ID == "" || item.Name == "" {
			return fmt.Errorf("items[%d]: %w", i, ErrMissingItemFields)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		if item.Price < 0 {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidPrice)
		}
		if !enum.ValidCategory(item.Category) {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidCategory)
		}
		sum += item.Price * int64(item.Quantity)
	}

	if sum != req.Total {
		return fmt.Errorf("%w: got %d, items sum to %d", ErrTotalMismatch, req.Total, sum)
	}
	return nil
}

// itemSnapshot is the JSON shape stored on the order row, matching the wire
// format of the order endpoints.
type itemSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Quantity int32  `json:"quantity"`
}

func toSnapshot(items []OrderItemInput) []itemSnapshot {
	out := make([]itemSnapshot, len(items))
	for i, it := range items {
		out[i] = itemSnapshot{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Category: it.Category,
			Quantity: it.Quantity,
		}
	}
	return out
}
