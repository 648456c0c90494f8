package storefront

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/upstream"
)

// FeedSource supplies the two product lists the homepage feed is built
// from. *upstream.Client satisfies it.
type FeedSource interface {
	Products(ctx context.Context, opts upstream.ListOptions) ([]catalog.Product, error)
	PopularProducts(ctx context.Context, limit int) ([]catalog.Product, error)
}

// HomeView builds the homepage "Our Collections" feed: popular products
// first, then regular ones, deduplicated and capped.
type HomeView struct {
	source     FeedSource
	popularCap int
	totalCap   int
}

// NewHomeView creates a homepage feed with the given caps.
func NewHomeView(source FeedSource, popularCap, totalCap int) *HomeView {
	return &HomeView{source: source, popularCap: popularCap, totalCap: totalCap}
}

// Load fetches the popular and regular lists concurrently and merges them.
// Either fetch failing fails the whole feed; the first error cancels the
// sibling fetch.
func (v *HomeView) Load(ctx context.Context) ([]catalog.Product, error) {
	var popular, normal []catalog.Product

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		popular, err = v.source.PopularProducts(ctx, v.popularCap)
		return err
	})
	g.Go(func() error {
		var err error
		// Fetch enough regulars to fill the feed even when every popular
		// product also appears in the regular list.
		normal, err = v.source.Products(ctx, upstream.ListOptions{
			Limit: v.totalCap + v.popularCap,
			Page:  1,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return catalog.MergeFeed(popular, normal, v.popularCap, v.totalCap), nil
}
