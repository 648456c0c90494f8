// Command catalog-snapshot exports the full product catalog, with each
// product's latest reviews, to a gzip-compressed JSON file. Useful for
// backups and for seeding local development environments without hitting
// the backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
	"github.com/xenking/giftshop-storefront/internal/upstream"
)

const defaultPageSize = 100

// snapshot is the on-disk shape.
type snapshot struct {
	TakenAt  time.Time         `json:"takenAt"`
	Upstream string            `json:"upstream"`
	Products []productSnapshot `json:"products"`
}

type productSnapshot struct {
	catalog.Product
	Reviews []review.Review `json:"reviews,omitempty"`
}

func main() {
	var (
		upstreamURL string
		outPath     string
		pageSize    int
		concurrency int
		withReviews bool
	)

	flag.StringVar(&upstreamURL, "upstream-url", "", "base URL of the backend REST API (or SHOP_UPSTREAM_URL env)")
	flag.StringVar(&outPath, "out", "catalog-snapshot.json.gz", "output file path")
	flag.IntVar(&pageSize, "page-size", defaultPageSize, "products fetched per request")
	flag.IntVar(&concurrency, "concurrency", 4, "concurrent review fetches")
	flag.BoolVar(&withReviews, "reviews", true, "include each product's latest reviews")
	flag.Parse()

	if upstreamURL == "" {
		upstreamURL = os.Getenv("SHOP_UPSTREAM_URL")
	}
	if upstreamURL == "" {
		slog.Error("upstream URL is required: set --upstream-url or SHOP_UPSTREAM_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, upstreamURL, outPath, pageSize, concurrency, withReviews); err != nil {
		slog.Error("snapshot failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("snapshot completed successfully", slog.String("out", outPath))
}

func run(ctx context.Context, upstreamURL, outPath string, pageSize, concurrency int, withReviews bool) error {
	client := upstream.New(upstream.Config{BaseURL: upstreamURL})

	products, err := fetchAllProducts(ctx, client, pageSize)
	if err != nil {
		return errors.Wrap(err, "fetch products")
	}
	slog.Info("products fetched", slog.Int("count", len(products)))

	snap := snapshot{
		TakenAt:  time.Now().UTC(),
		Upstream: upstreamURL,
		Products: make([]productSnapshot, len(products)),
	}
	for i, p := range products {
		snap.Products[i] = productSnapshot{Product: p}
	}

	if withReviews {
		if err := fetchReviews(ctx, client, snap.Products, concurrency); err != nil {
			return errors.Wrap(err, "fetch reviews")
		}
	}

	if err := writeSnapshot(outPath, snap); err != nil {
		return errors.Wrap(err, "write snapshot")
	}

	return nil
}

// fetchAllProducts pages through the catalog until a short page signals the
// end.
func fetchAllProducts(ctx context.Context, client *upstream.Client, pageSize int) ([]catalog.Product, error) {
	var all []catalog.Product
	for page := 1; ; page++ {
		items, err := client.Products(ctx, upstream.ListOptions{Limit: pageSize, Page: page})
		if err != nil {
			return nil, errors.Wrapf(err, "page %d", page)
		}
		all = append(all, items...)
		if len(items) < pageSize {
			return all, nil
		}
	}
}

// fetchReviews fills in each product's latest reviews, a bounded number of
// fetches in flight at once. A single failed product fails the snapshot.
func fetchReviews(ctx context.Context, client *upstream.Client, products []productSnapshot, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range products {
		g.Go(func() error {
			page, err := client.Reviews(ctx, products[i].ID, 1, 50)
			if err != nil {
				return errors.Wrapf(err, "product %s", products[i].ID)
			}
			products[i].Reviews = page.Items
			return nil
		})
	}

	return g.Wait()
}

func writeSnapshot(path string, snap snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()

	gz := pgzip.NewWriter(f)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "close gzip writer")
	}

	return f.Close()
}
