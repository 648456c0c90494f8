package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "all"

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPopular   SortKey = "popular"
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// ParseSortKey maps a raw query value to a SortKey, falling back to
// SortDefault for anything unrecognised.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPopular, SortName, SortPriceLow, SortPriceHigh:
		return SortKey(s)
	default:
		return SortDefault
	}
}

// QueryState is the full input to a catalog query.
type QueryState struct {
	Search   string
	Category string // CategoryAll means no filter
	Sort     SortKey
	Page     int // 1-based
	PerPage  int
}

// PageResult is one page of a filtered, sorted catalog.
type PageResult struct {
	Items      []Product
	TotalItems int
	TotalPages int
}

// nameCollator orders product names the way a storefront shows them, not by
// raw byte value.
var nameCollator = collate.New(language.English, collate.Loose)

// Query filters, sorts and paginates the product set. The input slice is
// never mutated. An out-of-range page yields an empty Items list rather than
// an error.
func Query(products []Product, q QueryState) PageResult {
	filtered := filter(products, q)
	sortProducts(filtered, q.Sort)

	total := len(filtered)
	totalPages := 0
	if q.PerPage > 0 {
		totalPages = (total + q.PerPage - 1) / q.PerPage
	}

	return PageResult{
		Items:      pageSlice(filtered, q.Page, q.PerPage),
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// SearchWords splits a raw search query into lower-cased words.
func SearchWords(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// MatchesSearch reports whether any of the words is a case-insensitive
// substring of the product name or description. A product matches when ANY
// word matches, mirroring the storefront's historical behaviour: "blue mug"
// finds products containing "blue" OR "mug".
func MatchesSearch(p Product, words []string) bool {
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description)
	for _, w := range words {
		if strings.Contains(name, w) {
			return true
		}
		if desc != "" && strings.Contains(desc, w) {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether the product belongs to the selected
// category. Matching is exact and case-sensitive; CategoryAll matches
// everything.
func MatchesCategory(p Product, category string) bool {
	return category == CategoryAll || category == "" || p.Category == category
}

func filter(products []Product, q QueryState) []Product {
	words := SearchWords(q.Search)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !MatchesCategory(p, q.Category) {
			continue
		}
		if len(words) > 0 && !MatchesSearch(p, words) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortProducts orders the slice in place. All sorts are stable so that equal
// elements keep their upstream relative order; SortDefault leaves the input
// order untouched.
func sortProducts(products []Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceOrZero().LessThan(products[j].PriceOrZero())
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].PriceOrZero().LessThan(products[i].PriceOrZero())
		})
	case SortName:
		sort.SliceStable(products, func(i, j int) bool {
			return nameCollator.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortPopular:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsPopular && !products[j].IsPopular
		})
	}
}

func pageSlice(products []Product, page, perPage int) []Product {
	if perPage <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(products) {
		return nil
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
