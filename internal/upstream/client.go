// Package upstream is the typed HTTP client for the gift-shop backend REST
// API. The backend owns all persistence; this client only consumes it.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
)

// DefaultTimeout bounds every backend call; the backend is a third-party
// dependency with no retry logic, so a hung request must not hang a view.
const DefaultTimeout = 15 * time.Second

// Config holds the client configuration.
type Config struct {
	// BaseURL is the backend root, e.g. https://shop-backend.example.com.
	// Trailing slashes are stripped.
	BaseURL string
	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client calls the gift-shop backend.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client. Outbound requests are traced via otelhttp.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// ListOptions are the query parameters of the product listing endpoint.
type ListOptions struct {
	Limit    int
	Page     int
	Category string
	Search   string
}

// Products fetches a page of the catalog.
func (c *Client) Products(ctx context.Context, opts ListOptions) ([]catalog.Product, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}

	body, err := c.do(ctx, http.MethodGet, "/api/products", q, "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}
	return decodeProductList(body)
}

// PopularProducts fetches the promoted product list.
func (c *Client) PopularProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/products/popular", q, "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch popular products")
	}
	return decodeProductList(body)
}

// ProductByID fetches a single product. It returns catalog.ErrNotFound for a
// 404.
func (c *Client) ProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, "", nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "fetch product %q", id)
	}

	p, err := decodeProductBytes(body)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Reviews fetches a page of reviews for a product, newest first.
func (c *Client) Reviews(ctx context.Context, productID string, page, limit int) (review.Page, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID)+"/reviews", q, "", nil)
	if err != nil {
		return review.Page{}, errors.Wrapf(err, "fetch reviews for %q", productID)
	}
	return decodeReviewsPage(body)
}

// SubmitReview posts a review. The submission must already be validated;
// the backend is never called with an invalid one.
func (c *Client) SubmitReview(ctx context.Context, productID string, sub review.Submission) (review.Review, error) {
	if err := sub.Validate(); err != nil {
		return review.Review{}, err
	}

	payload := map[string]any{"rating": sub.Rating}
	if name := strings.TrimSpace(sub.CustomerName); name != "" {
		payload["customerName"] = name
	}
	if comment := strings.TrimSpace(sub.Comment); comment != "" {
		payload["comment"] = comment
	}

	body, err := c.doJSON(ctx, http.MethodPost, "/api/products/"+url.PathEscape(productID)+"/reviews", "", payload)
	if err != nil {
		return review.Review{}, errors.Wrapf(err, "submit review for %q", productID)
	}
	return decodeReviewBytes(body)
}

// Ping performs a minimal catalog fetch, used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/products", url.Values{"limit": {"1"}}, "", nil)
	return err
}

// do performs a request and returns the response body, mapping non-2xx
// statuses to *StatusError with the backend's message when present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body io.Reader) ([]byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}
	return data, nil
}

// doJSON marshals payload and performs the request with a JSON body.
func (c *Client) doJSON(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}
	return c.do(ctx, method, path, nil, token, bytes.NewReader(data))
}

func unmarshalJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// errorMessage extracts the backend's {message: ...} field from an error
// body, best effort.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}
