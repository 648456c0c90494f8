package catalog

import (
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist upstream.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item as served by the gift-shop backend.
//
// Price, AverageRating and RatingsCount are pointers because the backend may
// omit them entirely, and "absent" carries different meaning than zero in the
// sort and review-summary rules.
type Product struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Category    string           `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description string           `json:"description,omitempty"`
	Features    []string         `json:"features,omitempty"`

	// Image fields in order of schema age. ImageURL is the oldest
	// single-image field, Images the first list-valued attempt, ImageURLs
	// the current one. Resolution precedence lives in the gallery package.
	ImageURL  string   `json:"imageUrl,omitempty"`
	Images    []string `json:"images,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`

	IsPopular bool `json:"isPopular,omitempty"`
	IsActive  bool `json:"isActive"`

	AverageRating *float64 `json:"averageRating,omitempty"`
	RatingsCount  *int     `json:"ratingsCount,omitempty"`
}

// PriceOrZero returns the product price, or zero when no price is set.
// Price-based sorting treats unpriced products as free.
func (p Product) PriceOrZero() decimal.Decimal {
	if p.Price == nil {
		return decimal.Zero
	}
	return *p.Price
}

// Categories returns the sorted set of distinct non-empty categories in the
// given product list.
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
