package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/snack-storefront/internal/api/middleware"
	"github.com/example/snack-storefront/internal/catalog"
	"github.com/example/snack-storefront/internal/order"
	"github.com/example/snack-storefront/internal/session"
)

type Handlers struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	checkout *order.Service
	currency string
}

func NewHandlers(cat *catalog.Catalog, sessions *session.Manager, checkout *order.Service, currency string) *Handlers {
	if currency == "" {
		currency = order.DefaultCurrency
	}
	return &Handlers{
		catalog:  cat,
		sessions: sessions,
		checkout: checkout,
		currency: currency,
	}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

func getSessionID(r *http.Request) string {
	return middleware.GetSessionID(r.Context())
}
