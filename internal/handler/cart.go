package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/canteen-hub/api/internal/cart"
	"github.com/canteen-hub/api/internal/menu"
)

// sessionCookie identifies a browser's cart across requests.
const sessionCookie = "canteen_session"

// CartHandler exposes the session cart. The session id travels in a cookie;
// a request without one gets a fresh id set on the response.
type CartHandler struct {
	store cart.Store
	newID func() string
}

func NewCartHandler(store cart.Store) *CartHandler {
	return &CartHandler{store: store, newID: uuid.NewString}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Post("/items", h.AddItem)
		r.Put("/items/{itemId}", h.SetQuantity)
		r.Delete("/items/{itemId}", h.RemoveItem)
	})
}

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type cartItemResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Quantity int32  `json:"quantity"`
}

// session resolves the request's cart session, minting a cookie when absent.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*cart.Session, error) {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = h.newID()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return cart.OpenSession(r.Context(), id, h.store)
}

func (h *CartHandler) writeCart(w http.ResponseWriter, s *cart.Session) {
	items := s.Items()
	resp := make([]cartItemResponse, len(items))
	for i, it := range items {
		resp[i] = cartItemResponse(it)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   resp,
		"total":   s.Total(),
	})
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(w, r)
	if err != nil {
		log.Printf("ERROR: load cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	h.writeCart(w, s)
}

// AddItem handles POST /api/cart/items. Adding an item already in the cart
// bumps its quantity by one.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, ok := menu.ByID(req.ItemID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown menu item")
		return
	}

	s, err := h.session(w, r)
	if err != nil {
		log.Printf("ERROR: load cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	if err := s.Add(r.Context(), item); err != nil {
		log.Printf("ERROR: save cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	h.writeCart(w, s)
}

// SetQuantity handles PUT /api/cart/items/{itemId}. A quantity of zero or
// less removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.session(w, r)
	if err != nil {
		log.Printf("ERROR: load cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	if err := s.SetQuantity(r.Context(), chi.URLParam(r, "itemId"), req.Quantity); err != nil {
		log.Printf("ERROR: save cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	h.writeCart(w, s)
}

// RemoveItem handles DELETE /api/cart/items/{itemId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(w, r)
	if err != nil {
		log.Printf("ERROR: load cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	if err := s.Remove(r.Context(), chi.URLParam(r, "itemId")); err != nil {
		log.Printf("ERROR: save cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	h.writeCart(w, s)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(w, r)
	if err != nil {
		log.Printf("ERROR: load cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	if err := s.Clear(r.Context()); err != nil {
		log.Printf("ERROR: clear cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	h.writeCart(w, s)
}
