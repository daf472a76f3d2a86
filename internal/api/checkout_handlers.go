package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/example/snack-storefront/internal/order"
)

type QuickOrderRequest struct {
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
}

type validationErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

// Checkout hands the session's cart off as a chat message. The cart is kept.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var customer order.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	view := c.View()
	res, err := h.checkout.Checkout(r.Context(), order.CheckoutInput{
		SessionID: getSessionID(r),
		Items:     view.Items,
		Mode:      view.Mode,
		Customer:  customer,
	})
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handlers) QuickOrder(w http.ResponseWriter, r *http.Request) {
	var req QuickOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.checkout.QuickOrder(r.Context(), order.QuickOrderInput{
		SessionID:    getSessionID(r),
		CustomerName: req.Name,
		ProductIDs:   req.ProductIDs,
	})
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handlers) respondCheckoutError(w http.ResponseWriter, err error) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{Error: verr.Error(), Missing: verr.Missing})
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, order.ErrNoProducts), errors.Is(err, order.ErrMissingCustomer):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrUnknownProduct):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, order.ErrRecipientNotConfigured):
		log.Printf("[API] Checkout unavailable: %v", err)
		respondError(w, "ordering is temporarily unavailable", http.StatusServiceUnavailable)
	default:
		log.Printf("[API] Checkout failed: %v", err)
		respondError(w, "checkout failed", http.StatusInternalServerError)
	}
}
