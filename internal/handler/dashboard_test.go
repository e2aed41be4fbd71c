package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canteen-hub/api/internal/database"
	"github.com/canteen-hub/api/internal/handler"
)

func setupDashboardRouter(store *mockOrderStore) *chi.Mux {
	h := handler.NewDashboardHandler(store, time.UTC)
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func dashboardOrders() []database.Order {
	ts := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return []database.Order{
		{
			ID:          "o1",
			StudentName: "Rahul Sharma",
			RollNumber:  "CS2021001",
			Items: json.RawMessage(`[
				{"id":"meal-1","name":"Veg Meal","price":4000,"category":"meal","quantity":2},
				{"id":"chai-1","name":"Regular Chai","price":1000,"category":"chai","quantity":1}
			]`),
			Total:         9000,
			PaymentMethod: "pay_now",
			PaymentStatus: "paid",
			CreatedAt:     ts,
		},
		{
			ID:          "o2",
			StudentName: "Priya Patel",
			RollNumber:  "EC2021045",
			Items: json.RawMessage(`[
				{"id":"chai-1","name":"Regular Chai","price":1000,"category":"chai","quantity":3}
			]`),
			Total:         3000,
			PaymentMethod: "add_to_account",
			PaymentStatus: "pending",
			CreatedAt:     ts.Add(30 * time.Minute),
		},
		{
			ID:          "o3",
			StudentName: "Priya Patel",
			RollNumber:  "EC2021045",
			Items: json.RawMessage(`[
				{"id":"snack-1","name":"Samosa","price":1500,"category":"snacks","quantity":2}
			]`),
			Total:         3000,
			PaymentMethod: "razorpay",
			PaymentStatus: "paid",
			CreatedAt:     ts.Add(time.Hour),
		},
	}
}

func TestDashboard(t *testing.T) {
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			if got := arg.Date.Time.Format("2006-01-02"); got != "2026-08-31" {
				t.Errorf("date: got %s", got)
			}
			return dashboardOrders(), nil
		},
	}

	router := setupDashboardRouter(store)
	rr := doRequest(t, router, "GET", "/api/dashboard?date=2026-08-31", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)

	stats := resp["stats"].(map[string]interface{})
	if stats["totalOrders"] != float64(3) {
		t.Errorf("totalOrders: got %v", stats["totalOrders"])
	}
	if stats["totalMeals"] != float64(2) {
		t.Errorf("totalMeals: got %v", stats["totalMeals"])
	}
	if stats["totalRevenue"] != float64(12000) {
		t.Errorf("totalRevenue: got %v", stats["totalRevenue"])
	}
	if stats["pendingAmount"] != float64(3000) {
		t.Errorf("pendingAmount: got %v", stats["pendingAmount"])
	}
	if stats["razorpayOrders"] != float64(1) || stats["razorpayRevenue"] != float64(3000) {
		t.Errorf("razorpay stats: got %v/%v", stats["razorpayOrders"], stats["razorpayRevenue"])
	}
	if stats["revenueDisplay"] != "120.00" {
		t.Errorf("revenueDisplay: got %v", stats["revenueDisplay"])
	}

	// Chai leads the ranking with 4 units across two orders.
	rankings := resp["rankings"].([]interface{})
	top := rankings[0].(map[string]interface{})
	if top["id"] != "chai-1" || top["quantity"] != float64(4) {
		t.Errorf("top rank: got %v", top)
	}

	pending := resp["pendingByStudent"].([]interface{})
	if len(pending) != 1 {
		t.Fatalf("pendingByStudent: got %v", pending)
	}
	group := pending[0].(map[string]interface{})
	if group["name"] != "Priya Patel" || group["totalPending"] != float64(3000) {
		t.Errorf("pending group: got %v", group)
	}
	if group["pendingDisplay"] != "30.00" {
		t.Errorf("pendingDisplay: got %v", group["pendingDisplay"])
	}

	orders := resp["orders"].([]interface{})
	if len(orders) != 3 {
		t.Fatalf("orders: got %d, want 3", len(orders))
	}
	first := orders[0].(map[string]interface{})
	if first["itemSummary"] != "Veg Meal x2, Regular Chai x1" {
		t.Errorf("itemSummary: got %v", first["itemSummary"])
	}
}

func TestDashboard_Filters(t *testing.T) {
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			return dashboardOrders(), nil
		},
	}

	router := setupDashboardRouter(store)
	rr := doRequest(t, router, "GET", "/api/dashboard?date=2026-08-31&status=pending&q=priya", nil)
	resp := decodeResponse(t, rr)

	orders := resp["orders"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("filtered orders: got %d, want 1", len(orders))
	}
	if orders[0].(map[string]interface{})["id"] != "o2" {
		t.Errorf("filtered order: got %v", orders[0])
	}

	// Filters on the table leave the stats for the whole day intact.
	stats := resp["stats"].(map[string]interface{})
	if stats["totalOrders"] != float64(3) {
		t.Errorf("totalOrders: got %v", stats["totalOrders"])
	}
}

func TestDashboard_PendingFilter(t *testing.T) {
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			return dashboardOrders(), nil
		},
	}

	router := setupDashboardRouter(store)
	rr := doRequest(t, router, "GET", "/api/dashboard?date=2026-08-31&pendingQ=nobody", nil)
	resp := decodeResponse(t, rr)

	if pending := resp["pendingByStudent"].([]interface{}); len(pending) != 0 {
		t.Errorf("pendingByStudent: got %v, want empty", pending)
	}
}

func TestDashboard_BadDate(t *testing.T) {
	router := setupDashboardRouter(&mockOrderStore{})
	rr := doRequest(t, router, "GET", "/api/dashboard?date=today", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}
