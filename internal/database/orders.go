package database

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (id, student_name, roll_number, items, total, payment_method, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, student_name, roll_number, items, total, payment_method, payment_status, created_at
`

type CreateOrderParams struct {
	ID            string
	StudentName   string
	RollNumber    string
	Items         json.RawMessage
	Total         int64
	PaymentMethod string
	PaymentStatus string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.ID,
		arg.StudentName,
		arg.RollNumber,
		arg.Items,
		arg.Total,
		arg.PaymentMethod,
		arg.PaymentStatus,
	)
	return scanOrder(row)
}

const createOrderItem = `
INSERT INTO order_items (order_id, item_id, item_name, item_price, item_category, quantity)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, order_id, item_id, item_name, item_price, item_category, quantity
`

type CreateOrderItemParams struct {
	OrderID      string
	ItemID       string
	ItemName     string
	ItemPrice    int64
	ItemCategory string
	Quantity     int32
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.ItemID,
		arg.ItemName,
		arg.ItemPrice,
		arg.ItemCategory,
		arg.Quantity,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ItemID,
		&i.ItemName,
		&i.ItemPrice,
		&i.ItemCategory,
		&i.Quantity,
	)
	return i, err
}

const getOrder = `
SELECT id, student_name, roll_number, items, total, payment_method, payment_status, created_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

// listOrders filters by calendar day in the canteen timezone when a date is
// given; otherwise it returns everything, newest first.
const listOrders = `
SELECT id, student_name, roll_number, items, total, payment_method, payment_status, created_at
FROM orders
WHERE $1::date IS NULL OR (created_at AT TIME ZONE $2)::date = $1::date
ORDER BY created_at DESC
`

type ListOrdersParams struct {
	Date     pgtype.Date
	Timezone string
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.Date, arg.Timezone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// updatePaymentStatus never moves a paid order back to pending; the WHERE
// clause makes the paid transition monotonic at the row level.
const updatePaymentStatus = `
UPDATE orders
SET payment_status = $2
WHERE id = $1 AND NOT (payment_status = 'paid' AND $2 = 'pending')
RETURNING id, student_name, roll_number, items, total, payment_method, payment_status, created_at
`

type UpdatePaymentStatusParams struct {
	ID     string
	Status string
}

func (q *Queries) UpdatePaymentStatus(ctx context.Context, arg UpdatePaymentStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updatePaymentStatus, arg.ID, arg.Status))
}

const getOrderStats = `
SELECT
    COUNT(*),
    COALESCE(SUM(total) FILTER (WHERE payment_status = 'paid'), 0),
    COALESCE(SUM(total) FILTER (WHERE payment_status = 'pending'), 0)
FROM orders
WHERE (created_at AT TIME ZONE $2)::date = $1::date
`

const getMealCount = `
SELECT COALESCE(SUM(oi.quantity), 0)
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE oi.item_category = 'meal'
  AND (o.created_at AT TIME ZONE $2)::date = $1::date
`

type GetOrderStatsParams struct {
	Date     pgtype.Date
	Timezone string
}

func (q *Queries) GetOrderStats(ctx context.Context, arg GetOrderStatsParams) (OrderStats, error) {
	var s OrderStats
	err := q.db.QueryRow(ctx, getOrderStats, arg.Date, arg.Timezone).
		Scan(&s.TotalOrders, &s.TotalRevenue, &s.PendingAmount)
	if err != nil {
		return OrderStats{}, err
	}
	err = q.db.QueryRow(ctx, getMealCount, arg.Date, arg.Timezone).Scan(&s.TotalMeals)
	if err != nil {
		return OrderStats{}, err
	}
	return s, nil
}

const listOrderItemsByOrder = `
SELECT id, order_id, item_id, item_name, item_price, item_category, quantity
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ItemID,
			&i.ItemName,
			&i.ItemPrice,
			&i.ItemCategory,
			&i.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.StudentName,
		&o.RollNumber,
		&o.Items,
		&o.Total,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.CreatedAt,
	)
	return o, err
}
