package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PingHandler answers the client's liveness probe.
type PingHandler struct{}

func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

func (h *PingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ping", h.Ping)
}

func (h *PingHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Canteen API is running"})
}
