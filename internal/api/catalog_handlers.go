package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/snack-storefront/internal/catalog"
	"github.com/example/snack-storefront/internal/domain/fulfilment"
)

const (
	relatedLimit = 4
	newestLimit  = 4
)

// ProductResponse is a catalog product plus the derived display fields
type ProductResponse struct {
	catalog.Product
	MinPrice  int `json:"min_price"`
	SpiceHeat int `json:"spice_heat"`
}

type ProductDetailResponse struct {
	Product ProductResponse   `json:"product"`
	Related []ProductResponse `json:"related"`
}

type CategoryDetailResponse struct {
	Category catalog.Category  `json:"category"`
	Products []ProductResponse `json:"products"`
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toProductResponse(p catalog.Product) ProductResponse {
	return ProductResponse{Product: p, MinPrice: p.MinPrice(), SpiceHeat: p.SpiceLevel.Heat()}
}

// parseQuery maps listing query parameters to a catalog query. "all" means no filter.
func parseQuery(r *http.Request) (catalog.Query, error) {
	v := r.URL.Query()
	q := catalog.Query{Search: v.Get("q")}

	if c := v.Get("category"); c != "" && c != "all" {
		q.Category = catalog.CategoryID(c)
		if !q.Category.Valid() {
			return q, errors.New("unknown category: " + c)
		}
	}
	if s := v.Get("spice"); s != "" && s != "all" {
		q.SpiceLevel = catalog.SpiceLevel(s)
		if !q.SpiceLevel.Valid() {
			return q, errors.New("unknown spice level: " + s)
		}
	}

	price, err := catalog.ParsePriceRange(v.Get("price"))
	if err != nil {
		return q, err
	}
	q.Price = price

	sort, err := catalog.ParseSort(v.Get("sort"))
	if err != nil {
		return q, err
	}
	q.Sort = sort
	return q, nil
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponses(catalog.Filter(h.catalog.Products(), q)))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, ok := h.catalog.Product(id)
	if !ok {
		respondError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, ProductDetailResponse{
		Product: toProductResponse(p),
		Related: toProductResponses(h.catalog.Related(id, relatedLimit)),
	})
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := catalog.CategoryID(extractPathParam(r.URL.Path, "/categories/"))
	c, ok := h.catalog.Category(id)
	if !ok {
		respondError(w, "Category not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, CategoryDetailResponse{
		Category: c,
		Products: toProductResponses(h.catalog.ByCategory(id)),
	})
}

// GetCollection serves the home page shelves: featured, gifts and newest
func (h *Handlers) GetCollection(w http.ResponseWriter, r *http.Request) {
	var products []catalog.Product
	switch name := extractPathParam(r.URL.Path, "/collections/"); name {
	case "featured":
		products = h.catalog.Featured()
	case "gifts":
		products = h.catalog.Gifts()
	case "newest":
		n := newestLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			parsed, err := strconv.Atoi(s)
			if err != nil || parsed <= 0 {
				respondError(w, "invalid limit", http.StatusBadRequest)
				return
			}
			n = parsed
		}
		products = h.catalog.Newest(n)
	default:
		respondError(w, "Collection not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handlers) GetFulfilmentModes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, fulfilment.Modes())
}
