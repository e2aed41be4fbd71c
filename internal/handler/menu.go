package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canteen-hub/api/internal/menu"
)

// MenuHandler serves the static catalog.
type MenuHandler struct{}

func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.List)
}

type menuItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// List handles GET /api/menu. Items come back in catalog order, meals
// first, so the client can group by category without sorting.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items := menu.Items()
	resp := make([]menuItemResponse, len(items))
	for i, it := range items {
		resp[i] = menuItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Price:       it.Price,
			Category:    it.Category,
			Description: it.Description,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   resp,
	})
}
