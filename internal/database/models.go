package database

import (
	"encoding/json"
	"time"
)

// Order is an orders row. Items holds the JSON item snapshot exactly as
// persisted; the order_items table is a derived index over the same data.
type Order struct {
	ID            string
	StudentName   string
	RollNumber    string
	Items         json.RawMessage
	Total         int64
	PaymentMethod string
	PaymentStatus string
	CreatedAt     time.Time
}

// OrderItem is an order_items row, denormalized for aggregate queries.
type OrderItem struct {
	ID           int64
	OrderID      string
	ItemID       string
	ItemName     string
	ItemPrice    int64
	ItemCategory string
	Quantity     int32
}

// OrderStats is the daily aggregate used by the stats endpoint. Money
// amounts are in paise.
type OrderStats struct {
	TotalOrders   int64
	TotalRevenue  int64
	PendingAmount int64
	TotalMeals    int64
}
