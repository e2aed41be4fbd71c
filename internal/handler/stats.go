package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/canteen-hub/api/internal/analytics"
	"github.com/canteen-hub/api/internal/database"
)

// StatsStore defines the database methods needed by the stats handler.
type StatsStore interface {
	GetOrderStats(ctx context.Context, arg database.GetOrderStatsParams) (database.OrderStats, error)
}

// StatsHandler serves the daily order summary.
type StatsHandler struct {
	store StatsStore
	loc   *time.Location
}

func NewStatsHandler(store StatsStore, loc *time.Location) *StatsHandler {
	return &StatsHandler{store: store, loc: loc}
}

func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.Get)
}

type statsResponse struct {
	TotalOrders   int64 `json:"totalOrders"`
	TotalRevenue  int64 `json:"totalRevenue"`
	PendingAmount int64 `json:"pendingAmount"`
	TotalMeals    int64 `json:"totalMeals"`
}

// Get handles GET /api/stats. Without a date param it reports today in the
// canteen timezone.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	day := analytics.Today(h.loc)
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := analytics.ParseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = parsed
	}

	stats, err := h.store.GetOrderStats(r.Context(), database.GetOrderStatsParams{
		Date:     pgtype.Date{Time: day.Time(time.UTC), Valid: true},
		Timezone: h.loc.String(),
	})
	if err != nil {
		log.Printf("ERROR: get order stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats": statsResponse{
			TotalOrders:   stats.TotalOrders,
			TotalRevenue:  stats.TotalRevenue,
			PendingAmount: stats.PendingAmount,
			TotalMeals:    stats.TotalMeals,
		},
	})
}
