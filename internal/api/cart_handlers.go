package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/example/snack-storefront/internal/domain/cart"
	"github.com/example/snack-storefront/internal/domain/fulfilment"
)

type CartResponse struct {
	Items      []cart.LineItem `json:"items"`
	ItemCount  int             `json:"item_count"`
	Subtotal   int             `json:"subtotal"`
	Currency   string          `json:"currency"`
	Fulfilment fulfilment.Mode `json:"fulfilment"`
}

type AddToCartRequest struct {
	ProductID   string `json:"product_id"`
	WeightLabel string `json:"weight_label"`
	Quantity    *int   `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type SetFulfilmentRequest struct {
	ModeID fulfilment.ID `json:"mode_id"`
}

type SetFulfilmentResponse struct {
	Changed bool         `json:"changed"`
	Cart    CartResponse `json:"cart"`
}

func (h *Handlers) cartResponse(c *cart.Store) CartResponse {
	view := c.View()
	count := 0
	for _, item := range view.Items {
		count += item.Quantity
	}
	return CartResponse{
		Items:      view.Items,
		ItemCount:  count,
		Subtotal:   cart.Subtotal(view.Items),
		Currency:   h.currency,
		Fulfilment: view.Mode,
	}
}

// sessionCart resolves the caller's cart, writing an error response on failure
func (h *Handlers) sessionCart(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	c, err := h.sessions.Cart(r.Context(), getSessionID(r))
	if err != nil {
		log.Printf("[API] Error resolving cart: %v", err)
		respondError(w, "no session", http.StatusUnauthorized)
		return nil, false
	}
	return c, true
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse(c))
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.cartResponse(c))
}

// AddToCart snapshots name, weight and image from the catalog. An omitted
// weight label selects the product's first weight; an omitted quantity means 1.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, found := h.catalog.Product(req.ProductID)
	if !found {
		respondError(w, "Product not found", http.StatusNotFound)
		return
	}

	label := req.WeightLabel
	if label == "" && len(p.Weights) > 0 {
		label = p.Weights[0].Label
	}
	weight, found := p.WeightOption(label)
	if !found {
		respondError(w, "unknown weight option: "+label, http.StatusBadRequest)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	_, err := c.AddItem(r.Context(), cart.AddItemInput{
		ProductID:    p.ID,
		Name:         p.Name,
		WeightOption: weight,
		Quantity:     quantity,
		Image:        p.PrimaryImage(),
	})
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(c))
}

// UpdateCartItem sets a line's quantity; zero or less removes it.
// An unknown line id leaves the cart unchanged and still answers 200.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/cart/items/")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondError(w, "quantity is required", http.StatusBadRequest)
		return
	}

	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.UpdateQuantity(r.Context(), id, *req.Quantity)
	respondJSON(w, http.StatusOK, h.cartResponse(c))
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/cart/items/")

	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.RemoveItem(r.Context(), id)
	respondJSON(w, http.StatusOK, h.cartResponse(c))
}

// SetFulfilment selects a mode. Unknown ids keep the current mode and report changed=false.
func (h *Handlers) SetFulfilment(w http.ResponseWriter, r *http.Request) {
	var req SetFulfilmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	changed := c.SetFulfilmentMode(req.ModeID)
	respondJSON(w, http.StatusOK, SetFulfilmentResponse{Changed: changed, Cart: h.cartResponse(c)})
}
