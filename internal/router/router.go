package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canteen-hub/api/internal/cart"
	"github.com/canteen-hub/api/internal/config"
	"github.com/canteen-hub/api/internal/database"
	"github.com/canteen-hub/api/internal/gateway"
	"github.com/canteen-hub/api/internal/handler"
	"github.com/canteen-hub/api/internal/service"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, carts cart.Store, razorpay *gateway.Client) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	loc := cfg.TimeLocation()

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})

	r.Route("/api", func(r chi.Router) {
		handler.NewPingHandler().RegisterRoutes(r)
		handler.NewMenuHandler().RegisterRoutes(r)
		handler.NewOrderHandler(orderService, queries, loc).RegisterRoutes(r)
		handler.NewStatsHandler(queries, loc).RegisterRoutes(r)
		handler.NewDashboardHandler(queries, loc).RegisterRoutes(r)
		handler.NewCartHandler(carts).RegisterRoutes(r)
		handler.NewCheckoutHandler(carts, orderService, razorpay, cfg.CheckoutDelay).RegisterRoutes(r)
	})

	return r
}
