package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type SortOption string

const (
	SortFeatured    SortOption = "featured"
	SortBestselling SortOption = "bestselling"
	SortNewest      SortOption = "newest"
	SortPriceAsc    SortOption = "price_asc"
	SortPriceDesc   SortOption = "price_desc"
)

var (
	ErrUnknownSort       = errors.New("unknown sort option")
	ErrInvalidPriceRange = errors.New("invalid price range")
)

// PriceRange bounds a product's cheapest weight. Max == 0 means no upper bound.
type PriceRange struct {
	Min int
	Max int
}

func (r PriceRange) contains(price int) bool {
	return price >= r.Min && (r.Max == 0 || price <= r.Max)
}

// Query describes the shop listing filters. Zero values mean "all".
type Query struct {
	Search     string
	Category   CategoryID
	SpiceLevel SpiceLevel
	Price      *PriceRange
	Sort       SortOption
}

// ParseSort maps a request value to a sort option; "" selects featured order
func ParseSort(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortBestselling, SortNewest, SortPriceAsc, SortPriceDesc:
		return opt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// ParsePriceRange parses "min-max" ("2000-0" is 2000 and above). "" and "all" yield nil.
func ParsePriceRange(s string) (*PriceRange, error) {
	if s == "" || s == "all" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
	}
	min, err := strconv.Atoi(lo)
	if err != nil || min < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
	}
	max, err := strconv.Atoi(hi)
	if err != nil || max < 0 || (max != 0 && max < min) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
	}
	return &PriceRange{Min: min, Max: max}, nil
}

// Filter applies q to products and returns a new, sorted slice
func Filter(products []Product, q Query) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Search != "" && !p.matchesSearch(q.Search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.SpiceLevel != SpiceNone && p.SpiceLevel != q.SpiceLevel {
			continue
		}
		if q.Price != nil && !q.Price.contains(p.MinPrice()) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].MinPrice() < out[j].MinPrice() })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].MinPrice() > out[j].MinPrice() })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	case SortBestselling:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].HasBadge(BadgeBestseller) && !out[j].HasBadge(BadgeBestseller)
		})
	}
	return out
}
