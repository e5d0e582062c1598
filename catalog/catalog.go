// Package catalog holds the immutable product catalog and the query engine
// that filters, sorts and summarizes it for the storefront.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultProducts []byte

var ErrInvalidProduct = errors.New("catalog: invalid product")

// Catalog is an ordered, read-only product list. Accessors hand out copies.
type Catalog struct {
	products []models.Product
	index    map[string]int
	facets   Facets
	locale   language.Tag
}

type Option func(*Catalog)

// WithLocale sets the collation locale used for name ordering.
func WithLocale(tag language.Tag) Option {
	return func(c *Catalog) { c.locale = tag }
}

// New validates products and builds a catalog preserving their order.
func New(products []models.Product, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
		locale:   language.Spanish,
	}
	for _, opt := range opts {
		opt(c)
	}
	for i, p := range products {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("product #%d: %w", i, err)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidProduct, p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}
	c.facets = deriveFacets(c.products)
	return c, nil
}

// Default returns the catalog embedded in the binary.
func Default(opts ...Option) (*Catalog, error) {
	products, err := ParseYAML(defaultProducts)
	if err != nil {
		return nil, err
	}
	return New(products, opts...)
}

// ParseYAML decodes a YAML product list.
func ParseYAML(data []byte) ([]models.Product, error) {
	var products []models.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	return products, nil
}

func validate(p models.Product) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidProduct)
	case p.Name == "":
		return fmt.Errorf("%w: %s: empty name", ErrInvalidProduct, p.ID)
	case len(p.Images) == 0:
		return fmt.Errorf("%w: %s: no images", ErrInvalidProduct, p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: %s: negative price", ErrInvalidProduct, p.ID)
	case p.PolygonCount < 0 || p.Reviews < 0:
		return fmt.Errorf("%w: %s: negative count", ErrInvalidProduct, p.ID)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: %s: rating out of range", ErrInvalidProduct, p.ID)
	}
	return nil
}

func (c *Catalog) Len() int { return len(c.products) }

func (c *Catalog) Locale() language.Tag { return c.locale }

// Products returns every product in catalog order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

func (c *Catalog) ByID(id string) (models.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i].Clone(), true
}

// Featured returns the featured products in catalog order.
func (c *Catalog) Featured() []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if p.Featured {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Facets returns the filter options derived from the whole catalog. They are
// computed once, when the catalog is built.
func (c *Catalog) Facets() Facets {
	return c.facets.clone()
}

// Facets lists what a shopper can filter by.
type Facets struct {
	Categories    []string    `json:"categories"`
	Manufacturers []string    `json:"manufacturers"`
	PriceBounds   PriceBounds `json:"priceBounds"`
}

// PriceBounds are floor(min price) and ceil(max price) over the catalog.
type PriceBounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func (f Facets) clone() Facets {
	f.Categories = append([]string{}, f.Categories...)
	f.Manufacturers = append([]string{}, f.Manufacturers...)
	return f
}

func deriveFacets(products []models.Product) Facets {
	f := Facets{Categories: []string{}, Manufacturers: []string{}}
	if len(products) == 0 {
		return f
	}

	categories := make(map[string]struct{})
	manufacturers := make(map[string]struct{})
	lo, hi := products[0].Price, products[0].Price
	for _, p := range products {
		categories[p.Category] = struct{}{}
		manufacturers[p.Manufacturer] = struct{}{}
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}

	f.Categories = sortedKeys(categories)
	f.Manufacturers = sortedKeys(manufacturers)
	f.PriceBounds = PriceBounds{Min: lo.Floor(), Max: hi.Ceil()}
	return f
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
