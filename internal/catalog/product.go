package catalog

import "strings"

type CategoryID string

const (
	CategoryMixtures CategoryID = "mixtures"
	CategoryGrams    CategoryID = "grams"
	CategorySweets   CategoryID = "sweets"
	CategoryGifts    CategoryID = "gifts"
)

// Valid reports whether the id belongs to the closed category set
func (c CategoryID) Valid() bool {
	switch c {
	case CategoryMixtures, CategoryGrams, CategorySweets, CategoryGifts:
		return true
	}
	return false
}

type SpiceLevel string

const (
	SpiceNone   SpiceLevel = ""
	SpiceMild   SpiceLevel = "Mild"
	SpiceMedium SpiceLevel = "Medium"
	SpiceHot    SpiceLevel = "Hot"
)

// Valid reports whether the level is one of the known levels or unset
func (s SpiceLevel) Valid() bool {
	switch s {
	case SpiceNone, SpiceMild, SpiceMedium, SpiceHot:
		return true
	}
	return false
}

// Heat returns the 1-3 heat rating shown next to a product, 0 when unset
func (s SpiceLevel) Heat() int {
	switch s {
	case SpiceMild:
		return 1
	case SpiceMedium:
		return 2
	case SpiceHot:
		return 3
	}
	return 0
}

const (
	BadgeBestseller = "Bestseller"
	BadgePremium    = "Premium"
)

// WeightOption is a purchasable package size. Price is in minor currency units.
type WeightOption struct {
	Label string `json:"label" yaml:"label"`
	Price int    `json:"price" yaml:"price"`
}

type Product struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Category      CategoryID     `json:"category" yaml:"category"`
	Images        []string       `json:"images" yaml:"images"`
	Weights       []WeightOption `json:"weights" yaml:"weights"`
	Badges        []string       `json:"badges,omitempty" yaml:"badges"`
	SpiceLevel    SpiceLevel     `json:"spice_level,omitempty" yaml:"spice_level"`
	SKU           string         `json:"sku" yaml:"sku"`
	Ingredients   []string       `json:"ingredients,omitempty" yaml:"ingredients"`
	Description   string         `json:"description,omitempty" yaml:"description"`
	BundleBuilder bool           `json:"bundle_builder,omitempty" yaml:"bundle_builder"`
}

type Category struct {
	ID          CategoryID `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Icon        string     `json:"icon" yaml:"icon"`
	Description string     `json:"description,omitempty" yaml:"description"`
}

// WeightOption looks up a weight by its label
func (p Product) WeightOption(label string) (WeightOption, bool) {
	for _, w := range p.Weights {
		if w.Label == label {
			return w, true
		}
	}
	return WeightOption{}, false
}

// MinPrice returns the cheapest weight price. Catalog validation guarantees at least one weight.
func (p Product) MinPrice() int {
	if len(p.Weights) == 0 {
		return 0
	}
	min := p.Weights[0].Price
	for _, w := range p.Weights[1:] {
		if w.Price < min {
			min = w.Price
		}
	}
	return min
}

// PrimaryImage returns the first image reference or "" if none
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

func (p Product) matchesSearch(q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	for _, ing := range p.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	return false
}

func (p Product) clone() Product {
	c := p
	c.Images = append([]string(nil), p.Images...)
	c.Weights = append([]WeightOption(nil), p.Weights...)
	c.Badges = append([]string(nil), p.Badges...)
	c.Ingredients = append([]string(nil), p.Ingredients...)
	return c
}
