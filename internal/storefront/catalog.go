// Package storefront holds the stateful view controllers behind the shop's
// screens: the full catalog grid, the product detail view and the homepage
// feed. Controllers own their view state exclusively and guard against
// stale responses from superseded loads.
package storefront

import (
	"context"
	"sync"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
)

// ProductSource supplies the full product set the catalog filters over.
// *upstream.ProductCache satisfies it.
type ProductSource interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

// CatalogView is the state of the catalog grid: the loaded product set, the
// current query (search, category, sort, page) and loading/error status.
type CatalogView struct {
	source  ProductSource
	perPage int

	mu       sync.Mutex
	products []catalog.Product
	state    catalog.QueryState
	loading  bool
	errMsg   string
	seq      uint64
}

// NewCatalogView creates a catalog view with no filters and the given page
// size.
func NewCatalogView(source ProductSource, perPage int) *CatalogView {
	return &CatalogView{
		source:  source,
		perPage: perPage,
		state: catalog.QueryState{
			Category: catalog.CategoryAll,
			Sort:     catalog.SortDefault,
			Page:     1,
			PerPage:  perPage,
		},
	}
}

// Load fetches the product set. While the fetch is outstanding the view
// reports loading; on failure the error message replaces the content. A load
// that was superseded by a newer one discards its result instead of
// overwriting newer state.
func (v *CatalogView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	products, err := v.source.Products(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return nil // superseded
	}
	v.loading = false
	if err != nil {
		v.errMsg = err.Error()
		return err
	}
	v.products = products
	return nil
}

// SetSearch updates the search query. Changing it resets to page 1.
func (v *CatalogView) SetSearch(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if query == v.state.Search {
		return
	}
	v.state.Search = query
	v.state.Page = 1
}

// SetCategory updates the category filter. Changing it resets to page 1.
func (v *CatalogView) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if category == v.state.Category {
		return
	}
	v.state.Category = category
	v.state.Page = 1
}

// SetSort updates the sort key. Changing it resets to page 1.
func (v *CatalogView) SetSort(key catalog.SortKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if key == v.state.Sort {
		return
	}
	v.state.Sort = key
	v.state.Page = 1
}

// SetPage moves to the given 1-based page.
func (v *CatalogView) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.state.Page = page
}

// ResetFilters clears search, category and sort, returning to page 1. This
// backs the "no results" screen's clear-filters control.
func (v *CatalogView) ResetFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Search = ""
	v.state.Category = catalog.CategoryAll
	v.state.Sort = catalog.SortDefault
	v.state.Page = 1
}

// Page computes the current page of the filtered, sorted catalog.
func (v *CatalogView) Page() catalog.PageResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return catalog.Query(v.products, v.state)
}

// Categories returns the sorted distinct categories of the loaded set.
func (v *CatalogView) Categories() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return catalog.Categories(v.products)
}

// State returns a copy of the current query state.
func (v *CatalogView) State() catalog.QueryState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Loading reports whether a load is outstanding.
func (v *CatalogView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the inline error message from the last failed load, or "".
func (v *CatalogView) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}
