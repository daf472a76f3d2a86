// Package catalog holds the immutable product and category data of the storefront.
// A Catalog is loaded once at startup and only ever read afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is a read-only, ordered view of products and categories
type Catalog struct {
	products   []Product
	categories []Category
	byID       map[string]int
	catByID    map[CategoryID]int
}

type document struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(doc.Categories, doc.Products)
}

// New builds a catalog from already decoded data, validating every product
func New(categories []Category, products []Product) (*Catalog, error) {
	c := &Catalog{
		byID:    make(map[string]int, len(products)),
		catByID: make(map[CategoryID]int, len(categories)),
	}

	for _, cat := range categories {
		if !cat.ID.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidCatalog, cat.ID)
		}
		if _, dup := c.catByID[cat.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat.ID)
		}
		c.catByID[cat.ID] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, ok := c.catByID[p.Category]; !ok {
			return nil, fmt.Errorf("%w: product %s is in category %q which the catalog does not define", ErrInvalidCatalog, p.ID, p.Category)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.clone())
	}

	return c, nil
}

func validateProduct(p Product) error {
	if p.ID == "" {
		return fmt.Errorf("%w: product without id", ErrInvalidCatalog)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product %s has no name", ErrInvalidCatalog, p.ID)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: product %s has unknown category %q", ErrInvalidCatalog, p.ID, p.Category)
	}
	if !p.SpiceLevel.Valid() {
		return fmt.Errorf("%w: product %s has unknown spice level %q", ErrInvalidCatalog, p.ID, p.SpiceLevel)
	}
	if len(p.Weights) == 0 {
		return fmt.Errorf("%w: product %s has no weight options", ErrInvalidCatalog, p.ID)
	}
	seen := make(map[string]bool, len(p.Weights))
	for _, w := range p.Weights {
		if w.Label == "" {
			return fmt.Errorf("%w: product %s has a weight without label", ErrInvalidCatalog, p.ID)
		}
		if w.Price < 0 {
			return fmt.Errorf("%w: product %s weight %s has negative price", ErrInvalidCatalog, p.ID, w.Label)
		}
		if seen[w.Label] {
			return fmt.Errorf("%w: product %s repeats weight %s", ErrInvalidCatalog, p.ID, w.Label)
		}
		seen[w.Label] = true
	}
	return nil
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i].clone(), true
}

// Category looks up a category by id
func (c *Catalog) Category(id CategoryID) (Category, bool) {
	i, ok := c.catByID[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Products returns all products in catalog order
func (c *Catalog) Products() []Product {
	return c.collect(func(Product) bool { return true })
}

// Categories returns all categories in catalog order
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

func (c *Catalog) ByCategory(id CategoryID) []Product {
	return c.collect(func(p Product) bool { return p.Category == id })
}

// Featured returns bestsellers and premium products
func (c *Catalog) Featured() []Product {
	return c.collect(func(p Product) bool {
		return p.HasBadge(BadgeBestseller) || p.HasBadge(BadgePremium)
	})
}

func (c *Catalog) Gifts() []Product {
	return c.ByCategory(CategoryGifts)
}

// Newest returns the last n products in catalog order
func (c *Catalog) Newest(n int) []Product {
	all := c.Products()
	if n <= 0 {
		return []Product{}
	}
	if n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Related returns up to n other products from the same category
func (c *Catalog) Related(id string, n int) []Product {
	p, ok := c.Product(id)
	if !ok || n <= 0 {
		return []Product{}
	}
	related := c.collect(func(o Product) bool { return o.Category == p.Category && o.ID != p.ID })
	if len(related) > n {
		related = related[:n]
	}
	return related
}

func (c *Catalog) collect(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	return out
}
