package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
)

type SortKey string

const (
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
)

var ErrInvalidSortKey = errors.New("catalog: invalid sort key")

// ParseSortKey maps a query string value to a SortKey. The empty string is
// name-asc and "rating" is accepted for rating-desc.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SortNameAsc):
		return SortNameAsc, nil
	case string(SortNameDesc):
		return SortNameDesc, nil
	case string(SortPriceAsc):
		return SortPriceAsc, nil
	case string(SortPriceDesc):
		return SortPriceDesc, nil
	case string(SortRatingDesc), "rating":
		return SortRatingDesc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}

// PriceRange is inclusive on both ends. An invalid Max means no upper bound.
type PriceRange struct {
	Min decimal.Decimal     `json:"min"`
	Max decimal.NullDecimal `json:"max"`
}

// AtMost returns a range bounded by max.
func AtMost(min, max decimal.Decimal) PriceRange {
	return PriceRange{Min: min, Max: decimal.NewNullDecimal(max)}
}

// Valid reports whether min <= max.
func (r PriceRange) Valid() bool {
	return !r.Max.Valid || r.Min.LessThanOrEqual(r.Max.Decimal)
}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	return !r.Max.Valid || price.LessThanOrEqual(r.Max.Decimal)
}

// Query describes one catalog evaluation.
type Query struct {
	Term          string     `json:"searchTerm"`
	Categories    []string   `json:"selectedCategories"`
	Manufacturers []string   `json:"selectedManufacturers"`
	Price         PriceRange `json:"priceRange"`
	Sort          SortKey    `json:"sortBy"`
}

// Active reports whether any filter narrows the catalog.
func (q Query) Active() bool {
	return q.Term != "" ||
		len(q.Categories) > 0 ||
		len(q.Manufacturers) > 0 ||
		q.Price.Min.IsPositive() ||
		q.Price.Max.Valid
}

type Result struct {
	Products []models.Product `json:"products"`
	Facets   Facets           `json:"facets"`
	Total    int              `json:"total"`
}

// Query is shorthand for Evaluate(c, q).
func (c *Catalog) Query(q Query) Result {
	return Evaluate(c, q)
}

// Evaluate filters the catalog by text, category, manufacturer and price (in
// that order) and sorts the survivors. Facets always describe the whole
// catalog. A range with min > max yields no products.
func Evaluate(c *Catalog, q Query) Result {
	if c == nil {
		c = &Catalog{}
	}
	res := Result{Products: []models.Product{}, Facets: c.Facets()}
	if !q.Price.Valid() {
		return res
	}

	term := strings.ToLower(q.Term)
	categories := toSet(q.Categories)
	manufacturers := toSet(q.Manufacturers)

	for _, p := range c.products {
		if !matchesTerm(p, term) {
			continue
		}
		if !inSet(categories, p.Category) {
			continue
		}
		if !inSet(manufacturers, p.Manufacturer) {
			continue
		}
		if !q.Price.Contains(p.Price) {
			continue
		}
		res.Products = append(res.Products, p.Clone())
	}

	sortProducts(res.Products, q.Sort, collate.New(c.locale))
	res.Total = len(res.Products)
	return res
}

func matchesTerm(p models.Product, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{p.Name, p.ShortDescription, p.LongDescription, p.Manufacturer} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// inSet treats an empty set as "no filter".
func inSet(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}

// sortProducts is stable: equal keys keep catalog order.
func sortProducts(products []models.Product, key SortKey, col *collate.Collator) {
	var less func(a, b models.Product) bool
	switch key {
	case SortNameAsc, "":
		less = func(a, b models.Product) bool { return col.CompareString(a.Name, b.Name) < 0 }
	case SortNameDesc:
		less = func(a, b models.Product) bool { return col.CompareString(b.Name, a.Name) < 0 }
	case SortPriceAsc:
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b models.Product) bool { return b.Price.LessThan(a.Price) }
	case SortRatingDesc:
		less = func(a, b models.Product) bool { return b.Rating < a.Rating }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}
