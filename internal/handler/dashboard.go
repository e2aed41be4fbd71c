package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/canteen-hub/api/internal/analytics"
	"github.com/canteen-hub/api/internal/database"
)

// rankingLimit caps the item popularity table.
const rankingLimit = 10

// DashboardHandler serves the admin dashboard payload: day stats, item
// rankings, the filtered orders table and per-student pending balances.
// Clients poll it on a fixed interval; every response is a full re-read.
type DashboardHandler struct {
	store OrderStore
	loc   *time.Location
}

func NewDashboardHandler(store OrderStore, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{store: store, loc: loc}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Get)
}

type dashboardStatsResponse struct {
	TotalOrders     int    `json:"totalOrders"`
	TotalMeals      int64  `json:"totalMeals"`
	TotalRevenue    int64  `json:"totalRevenue"`
	PendingAmount   int64  `json:"pendingAmount"`
	RazorpayOrders  int    `json:"razorpayOrders"`
	RazorpayRevenue int64  `json:"razorpayRevenue"`
	RevenueDisplay  string `json:"revenueDisplay"`
	PendingDisplay  string `json:"pendingDisplay"`
}

type itemRankResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Quantity       int64  `json:"quantity"`
	Revenue        int64  `json:"revenue"`
	RevenueDisplay string `json:"revenueDisplay"`
	Share          string `json:"share"`
}

type dashboardOrderResponse struct {
	ID            string    `json:"id"`
	StudentName   string    `json:"studentName"`
	RollNumber    string    `json:"rollNumber"`
	ItemSummary   string    `json:"itemSummary"`
	Total         int64     `json:"total"`
	TotalDisplay  string    `json:"totalDisplay"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	Timestamp     time.Time `json:"timestamp"`
}

type pendingOrderResponse struct {
	ID        string    `json:"id"`
	Items     string    `json:"items"`
	Total     int64     `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

type studentPendingResponse struct {
	Name           string                 `json:"name"`
	RollNumber     string                 `json:"rollNumber"`
	TotalPending   int64                  `json:"totalPending"`
	PendingDisplay string                 `json:"pendingDisplay"`
	OrderCount     int                    `json:"orderCount"`
	Orders         []pendingOrderResponse `json:"orders"`
}

// Get handles GET /api/dashboard. Query params: date (default today),
// status and q filter the orders table, pendingQ filters the per-student
// pending list.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	day := analytics.Today(h.loc)
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := analytics.ParseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = parsed
	}

	rows, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		Date:     pgtype.Date{Time: day.Time(time.UTC), Valid: true},
		Timezone: h.loc.String(),
	})
	if err != nil {
		log.Printf("ERROR: list orders for dashboard: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	orders := make([]analytics.Order, 0, len(rows))
	for _, row := range rows {
		o, err := toAnalyticsOrder(row)
		if err != nil {
			log.Printf("ERROR: decode order %s items: %v", row.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}
		orders = append(orders, o)
	}

	stats := analytics.ComputeStats(orders)
	ranks := analytics.RankItems(orders, rankingLimit)
	pending := analytics.FilterPending(analytics.PendingByStudent(orders), r.URL.Query().Get("pendingQ"))
	table := analytics.FilterOrders(orders, r.URL.Query().Get("status"), r.URL.Query().Get("q"))

	rankResp := make([]itemRankResponse, len(ranks))
	for i, rk := range ranks {
		rankResp[i] = itemRankResponse{
			ID:             rk.ID,
			Name:           rk.Name,
			Category:       rk.Category,
			Quantity:       rk.Quantity,
			Revenue:        rk.Revenue,
			RevenueDisplay: analytics.Rupees(rk.Revenue),
			Share:          rk.Share.String(),
		}
	}

	tableResp := make([]dashboardOrderResponse, len(table))
	for i, o := range table {
		tableResp[i] = dashboardOrderResponse{
			ID:            o.ID,
			StudentName:   o.StudentName,
			RollNumber:    o.RollNumber,
			ItemSummary:   analytics.ItemSummary(o.Items),
			Total:         o.Total,
			TotalDisplay:  analytics.Rupees(o.Total),
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: o.PaymentStatus,
			Timestamp:     o.Timestamp,
		}
	}

	pendingResp := make([]studentPendingResponse, len(pending))
	for i, g := range pending {
		po := make([]pendingOrderResponse, len(g.Orders))
		for j, o := range g.Orders {
			po[j] = pendingOrderResponse{
				ID:        o.ID,
				Items:     o.Items,
				Total:     o.Total,
				Timestamp: o.Timestamp,
			}
		}
		pendingResp[i] = studentPendingResponse{
			Name:           g.Name,
			RollNumber:     g.RollNumber,
			TotalPending:   g.TotalPending,
			PendingDisplay: analytics.Rupees(g.TotalPending),
			OrderCount:     g.OrderCount,
			Orders:         po,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"date":    day.String(),
		"stats": dashboardStatsResponse{
			TotalOrders:     stats.TotalOrders,
			TotalMeals:      stats.TotalMeals,
			TotalRevenue:    stats.TotalRevenue,
			PendingAmount:   stats.PendingAmount,
			RazorpayOrders:  stats.RazorpayOrders,
			RazorpayRevenue: stats.RazorpayRevenue,
			RevenueDisplay:  analytics.Rupees(stats.TotalRevenue),
			PendingDisplay:  analytics.Rupees(stats.PendingAmount),
		},
		"rankings":         rankResp,
		"orders":           tableResp,
		"pendingByStudent": pendingResp,
	})
}

// toAnalyticsOrder decodes the item snapshot a database row carries.
func toAnalyticsOrder(row database.Order) (analytics.Order, error) {
	var items []analytics.Item
	if err := json.Unmarshal(row.Items, &items); err != nil {
		return analytics.Order{}, err
	}
	return analytics.Order{
		ID:            row.ID,
		StudentName:   row.StudentName,
		RollNumber:    row.RollNumber,
		Items:         items,
		Total:         row.Total,
		PaymentMethod: row.PaymentMethod,
		PaymentStatus: row.PaymentStatus,
		Timestamp:     row.CreatedAt,
	}, nil
}
